package handler

import (
	"context"
	"errors"
	"net/http"

	propertyerrors "stayhub/internal/properties/errors"
	mongodb "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	httputil "stayhub/pkg/http"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const MsgInvalidProperty = "Invalid Property ID"

// PropertyReader is satisfied by the cached read path and by the store itself.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type PropertyHandler struct {
	reader PropertyReader
	log    *logger.Logger
}

func NewPropertyHandler(reader PropertyReader, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		reader: reader,
		log:    log,
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if !mongodb.IsValidID(id) {
		h.writeError(w, "GetByID", apperrors.InvalidInput(MsgInvalidProperty))
		return
	}

	property, err := h.reader.FindByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, propertyerrors.ErrNotFound):
			h.writeError(w, "GetByID", apperrors.NotFoundWithID("Property", id))
		case errors.Is(err, propertyerrors.ErrInvalidID):
			h.writeError(w, "GetByID", apperrors.InvalidInput(MsgInvalidProperty))
		default:
			h.log.Error("Failed to read property", "property_id", id, "error", err)
			h.writeError(w, "GetByID", apperrors.Internal("Failed to retrieve property", err))
		}
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties/:id", h.GetByID)
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
