// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"errors"
	"fmt"
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

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, moderatorOnly func(http.Handler) http.Handler,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
		r.Get("/{paymentID}", h.Get)
		r.Get("/{paymentID}/status", h.GetStatus)
	})

	r.Route("/admin/payments", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(moderatorOnly)

		r.Get("/", h.List)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.Create(r.Context(), userID, email, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "unknown payment method")
			return
		}
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			// Nothing was persisted; the caller gets the processor's
			// own message back.
			core.JSONError(w, core.NewAppError(
				err,
				provErr.Message,
				http.StatusBadRequest,
				"PAYMENT_PROVIDER_ERROR",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToPaymentResponse(payment))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := h.service.GetByID(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "payment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if payment.UserID != middleware.GetUserID(r.Context()) &&
		!middleware.IsModerator(r.Context()) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	core.OK(w, ToPaymentResponse(payment))
}

// GetStatus proxies the processor's view of a bank transfer payment.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := h.service.GetByID(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "payment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if payment.UserID != middleware.GetUserID(r.Context()) &&
		!middleware.IsModerator(r.Context()) {
		core.Forbidden(w, "insufficient permissions")
		return
	}

	intent, err := h.service.IntentForPayment(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, ErrNoExternalReference) {
			core.BadRequest(w, "no external reference exists for this payment")
			return
		}
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			// Processor failures surface as a lookup miss with the
			// provider's own detail attached.
			core.JSONError(w, core.NewAppError(
				err,
				fmt.Sprintf("an error occurred: %s", provErr.Message),
				http.StatusNotFound,
				"PAYMENT_INTENT_LOOKUP_FAILED",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, intent)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	payments, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPaymentResponseList(payments))
}

// List is the moderator view across all users, filterable by method and
// paid item.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListPaymentsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Method:   r.URL.Query().Get("method"),
		CourseID: r.URL.Query().Get("course_id"),
		LessonID: r.URL.Query().Get("lesson_id"),
		Sort:     r.URL.Query().Get("sort"),
	}
	params.Normalize()

	payments, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToPaymentResponseList(payments),
		params.Page,
		params.PageSize,
		total,
	)
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
