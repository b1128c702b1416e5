// AngelaMos | 2026
// handler.go

package subscription

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/courseware/internal/core"
	"github.com/carterperez-dev/courseware/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/courses/{courseID}/subscribe", h.Subscribe)
		r.Post("/courses/{courseID}/unsubscribe", h.Unsubscribe)
		r.Get("/subscriptions", h.ListMine)
	})
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())
	courseID := chi.URLParam(r, "courseID")

	_, err := h.service.Subscribe(r.Context(), userID, email, courseID)
	if err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			core.BadRequest(w, "already subscribed to this course")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "course")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Detail(w, http.StatusCreated, "subscribed")
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())
	courseID := chi.URLParam(r, "courseID")

	err := h.service.Unsubscribe(r.Context(), userID, email, courseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Detail(w, http.StatusOK, "unsubscribed")
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	subs, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponseList(subs))
}
