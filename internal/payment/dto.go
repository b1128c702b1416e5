// AngelaMos | 2026
// dto.go

package payment

import (
	"time"
)

type CreatePaymentRequest struct {
	PaidCourseID *string `json:"paid_course_id" validate:"omitempty,uuid"`
	PaidLessonID *string `json:"paid_lesson_id" validate:"omitempty,uuid"`
	Amount       int64   `json:"amount"         validate:"required,gt=0"`
	Method       string  `json:"method"         validate:"required,oneof=CASH BANK_TRANSFER"`
}

type PaymentResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PaidCourseID *string   `json:"paid_course_id,omitempty"`
	PaidLessonID *string   `json:"paid_lesson_id,omitempty"`
	Amount       int64     `json:"amount"`
	Method       string    `json:"method"`
	StripeID     *string   `json:"stripe_id,omitempty"`
	PaymentDate  time.Time `json:"payment_date"`
}

type ListPaymentsParams struct {
	Page     int
	PageSize int
	Method   string
	CourseID string
	LessonID string
	Sort     string
}

func (p *ListPaymentsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	if p.Sort != "asc" {
		p.Sort = "desc"
	}
}

func (p *ListPaymentsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		PaidCourseID: p.PaidCourseID,
		PaidLessonID: p.PaidLessonID,
		Amount:       p.Amount,
		Method:       p.Method,
		StripeID:     p.StripeID,
		PaymentDate:  p.PaymentDate,
	}
}

func ToPaymentResponseList(payments []Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, ToPaymentResponse(&payments[i]))
	}
	return responses
}
