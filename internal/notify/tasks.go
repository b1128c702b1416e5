// AngelaMos | 2026
// tasks.go

package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeSubscriptionConfirmed = "notify:subscription_confirmed"
	TypeUnsubscribed          = "notify:unsubscribed"
	TypeCourseUpdated         = "notify:course_updated"
	TypeDeactivateInactive    = "maintenance:deactivate_inactive"
)

type SubscriptionPayload struct {
	Email      string `json:"email"`
	CourseName string `json:"course_name"`
}

// CourseUpdatedPayload carries the full recipient batch for one course
// change. One task per update, not one per subscriber.
type CourseUpdatedPayload struct {
	CourseName string   `json:"course_name"`
	Recipients []string `json:"recipients"`
}

func NewSubscriptionConfirmedTask(email, courseName string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubscriptionPayload{
		Email:      email,
		CourseName: courseName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal subscription payload: %w", err)
	}
	return asynq.NewTask(TypeSubscriptionConfirmed, payload), nil
}

func NewUnsubscribedTask(email, courseName string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubscriptionPayload{
		Email:      email,
		CourseName: courseName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal unsubscribe payload: %w", err)
	}
	return asynq.NewTask(TypeUnsubscribed, payload), nil
}

func NewCourseUpdatedTask(courseName string, recipients []string) (*asynq.Task, error) {
	payload, err := json.Marshal(CourseUpdatedPayload{
		CourseName: courseName,
		Recipients: recipients,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal course update payload: %w", err)
	}
	return asynq.NewTask(TypeCourseUpdated, payload), nil
}

func NewDeactivateInactiveTask() *asynq.Task {
	return asynq.NewTask(TypeDeactivateInactive, nil)
}
