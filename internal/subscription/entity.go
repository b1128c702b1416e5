// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

// Subscription is the single row a (user, course) pair ever gets.
// Unsubscribing flips is_active off; subscribing again revives the same
// row instead of inserting a second one.
type Subscription struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	CourseID     string    `db:"course_id"`
	IsActive     bool      `db:"is_active"`
	SubscribedAt time.Time `db:"subscribed_at"`
	CreatedAt    time.Time `db:"created_at"`
}

type SubscriptionResponse struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	IsActive     bool      `json:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func ToSubscriptionResponse(s *Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           s.ID,
		CourseID:     s.CourseID,
		IsActive:     s.IsActive,
		SubscribedAt: s.SubscribedAt,
	}
}

func ToSubscriptionResponseList(subs []Subscription) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		responses = append(responses, ToSubscriptionResponse(&subs[i]))
	}
	return responses
}
