package handler

import (
	"net/http"

	"stayhub/internal/reviews/service"
	"stayhub/pkg/contracts"
	apperrors "stayhub/pkg/errors"
	httputil "stayhub/pkg/http"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ReviewResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

type ReviewHandler struct {
	service  service.ReviewService
	identity contracts.IdentityResolver
	log      *logger.Logger
}

func NewReviewHandler(service service.ReviewService, identity contracts.IdentityResolver, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *ReviewHandler) Post(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.Resolve(r)
	if err != nil {
		h.writeError(w, "Post", err)
		return
	}

	var req model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Post", apperrors.InvalidInput("Invalid request body"))
		return
	}

	res, err := h.service.Post(r.Context(), userID, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Post", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ReviewResponse{
		Message:       service.MsgReviewAdded,
		AverageRating: res.AverageRating,
		ReviewCount:   res.ReviewCount,
	}); err != nil {
		h.log.Error("failed to write response", "handler", "Post", "operation", "WriteJSON", "error", err)
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties/:id/reviews", h.Post)
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
