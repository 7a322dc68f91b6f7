package handler

import (
	"net/http"

	"stayhub/internal/notifications/service"
	"stayhub/pkg/contracts"
	httputil "stayhub/pkg/http"
	"stayhub/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service  service.NotificationService
	identity contracts.IdentityResolver
	log      *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, identity contracts.IdentityResolver, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.Resolve(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	notifications, total, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.Resolve(r)
	if err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, ps.ByName("id")); err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users/me/notifications", h.List)
	router.PATCH("/api/v1/users/me/notifications/:id/read", h.MarkRead)
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
