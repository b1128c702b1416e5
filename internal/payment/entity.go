// AngelaMos | 2026
// entity.go

package payment

import (
	"time"
)

const (
	MethodCash         = "CASH"
	MethodBankTransfer = "BANK_TRANSFER"
)

// Payment records money received for a course or a lesson. Exactly one
// of PaidCourseID and PaidLessonID is usually set, but neither is
// required. StripeID is only present for bank transfers.
type Payment struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	PaidCourseID *string   `db:"paid_course_id"`
	PaidLessonID *string   `db:"paid_lesson_id"`
	Amount       int64     `db:"amount"`
	Method       string    `db:"method"`
	StripeID     *string   `db:"stripe_id"`
	PaymentDate  time.Time `db:"payment_date"`
}

func (p *Payment) HasExternalReference() bool {
	return p.StripeID != nil && *p.StripeID != ""
}
