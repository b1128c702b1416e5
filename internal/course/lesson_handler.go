// AngelaMos | 2026
// lesson_handler.go

package course

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/courseware/internal/core"
	"github.com/carterperez-dev/courseware/internal/middleware"
)

type LessonHandler struct {
	service   *Service
	validator *validator.Validate
}

func NewLessonHandler(service *Service) (*LessonHandler, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		return nil, err
	}

	return &LessonHandler{
		service:   service,
		validator: v,
	}, nil
}

func (h *LessonHandler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/lessons", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{lessonID}", h.Get)
		r.Put("/{lessonID}", h.Update)
		r.Delete("/{lessonID}", h.Delete)
	})
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)

	lessons, total, err := h.service.ListLessons(r.Context(), page, pageSize)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToLessonResponseList(lessons), page, pageSize, total)
}

func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToLessonResponse(lesson))
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")

	lesson, err := h.service.GetLesson(r.Context(), lessonID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbRead, lesson.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	core.OK(w, ToLessonResponse(lesson))
}

func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")

	var req UpdateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	lesson, err := h.service.GetLesson(r.Context(), lessonID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbUpdate, lesson.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	updated, err := h.service.UpdateLesson(r.Context(), lessonID, req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, ToLessonResponse(updated))
}

func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")

	lesson, err := h.service.GetLesson(r.Context(), lessonID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbDelete, lesson.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	if err := h.service.DeleteLesson(r.Context(), lessonID); err != nil {
		h.handleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *LessonHandler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "lesson")
		return
	}
	core.InternalServerError(w, err)
}
