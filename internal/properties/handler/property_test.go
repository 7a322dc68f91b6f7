package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	propertyerrors "stayhub/internal/properties/errors"
	"stayhub/internal/properties/repository"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (f failingReader) FindByID(context.Context, string) (*model.Property, error) {
	return nil, f.err
}

func get(reader PropertyReader, id string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewPropertyHandler(reader, logger.New(logger.Config{Output: io.Discard})).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+id, nil))
	return rec
}

func TestGetByID_ReturnsAggregate(t *testing.T) {
	id := mongodb.NewID()
	repo := repository.NewMemoryPropertyRepository(&model.Property{
		ID:    id,
		Title: "Cabin",
		Reviews: []model.Review{
			{UserID: "a", Rating: 5},
			{UserID: "b", Rating: 2},
		},
	})
	// Saving applies the recompute that every store write performs.
	p, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), p)
	require.NoError(t, err)

	rec := get(repo, id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Cabin"`)
	assert.Contains(t, rec.Body.String(), `"averageRating":3.5`)
	assert.Contains(t, rec.Body.String(), `"reviewCount":2`)
}

func TestGetByID_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		reader PropertyReader
		status int
	}{
		{"malformed id", "nope", failingReader{}, http.StatusBadRequest},
		{"missing", mongodb.NewID(), repository.NewMemoryPropertyRepository(), http.StatusNotFound},
		{"store failure", mongodb.NewID(), failingReader{err: errors.New("socket closed")}, http.StatusInternalServerError},
		{"store rejects id", mongodb.NewID(), failingReader{err: propertyerrors.ErrInvalidID}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(tt.reader, tt.id)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "socket closed")
		})
	}
}
