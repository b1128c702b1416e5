// AngelaMos | 2026
// handler.go

package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/courseware/internal/core"
	"github.com/carterperez-dev/courseware/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) (*Handler, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		return nil, err
	}

	return &Handler{
		service:   service,
		validator: v,
	}, nil
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/courses", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{courseID}", h.Get)
		r.Put("/{courseID}", h.Update)
		r.Delete("/{courseID}", h.Delete)

		r.Get("/{courseID}/lessons", h.ListLessons)
		r.Post("/{courseID}/lessons/{lessonID}", h.AttachLesson)
		r.Delete("/{courseID}/lessons/{lessonID}", h.DetachLesson)
	})
}

func identityFrom(r *http.Request) Identity {
	return Identity{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListCoursesParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()

	courses, total, err := h.service.ListCourses(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToCourseResponseList(courses),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	course, err := h.service.CreateCourse(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToCourseResponse(course))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbRead, course.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	core.OK(w, ToCourseResponse(course))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbUpdate, course.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	updated, err := h.service.UpdateCourse(r.Context(), courseID, req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, ToCourseResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbDelete, course.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	if err := h.service.DeleteCourse(r.Context(), courseID); err != nil {
		h.handleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	lessons, err := h.service.CourseLessons(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, ToLessonResponseList(lessons))
}

func (h *Handler) AttachLesson(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	lessonID := chi.URLParam(r, "lessonID")

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbUpdate, course.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	if err := h.service.AttachLesson(r.Context(), courseID, lessonID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "lesson")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) DetachLesson(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	lessonID := chi.URLParam(r, "lessonID")

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if !OwnerOrModerator(identityFrom(r), VerbUpdate, course.OwnerID) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	if err := h.service.DetachLesson(r.Context(), courseID, lessonID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "lesson")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "course")
		return
	}
	core.InternalServerError(w, err)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
