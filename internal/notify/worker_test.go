// AngelaMos | 2026
// worker_test.go

package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent    []sentMail
	failFor string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.failFor != "" && to == f.failFor {
		return errors.New("smtp refused")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

type fakeDeactivator struct {
	cutoff time.Time
	count  int64
	err    error
}

func (f *fakeDeactivator) DeactivateInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.count, f.err
}

type fakePurger struct {
	count int64
}

func (f *fakePurger) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return f.count, nil
}

func newTestHandlers(mailer Mailer, users UserDeactivator) *Handlers {
	return NewHandlers(
		mailer,
		users,
		&fakePurger{},
		30*24*time.Hour,
		slog.New(slog.DiscardHandler),
	)
}

func TestHandleSubscriptionConfirmed(t *testing.T) {
	mailer := &fakeMailer{}
	h := newTestHandlers(mailer, &fakeDeactivator{})

	task, err := NewSubscriptionConfirmedTask("u1@example.com", "Go Fundamentals")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	if err := h.HandleSubscriptionConfirmed(context.Background(), task); err != nil {
		t.Fatalf("handle task: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "u1@example.com" {
		t.Fatalf("mail sent to %q", mailer.sent[0].to)
	}
}

func TestHandleCourseUpdatedFansOutToBatch(t *testing.T) {
	mailer := &fakeMailer{}
	h := newTestHandlers(mailer, &fakeDeactivator{})

	task, err := NewCourseUpdatedTask("Go Fundamentals", []string{
		"a@example.com", "b@example.com", "c@example.com",
	})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	if err := h.HandleCourseUpdated(context.Background(), task); err != nil {
		t.Fatalf("handle task: %v", err)
	}

	if len(mailer.sent) != 3 {
		t.Fatalf("expected 3 mails, got %d", len(mailer.sent))
	}
}

func TestHandleCourseUpdatedReturnsMailErrorForRetry(t *testing.T) {
	mailer := &fakeMailer{failFor: "b@example.com"}
	h := newTestHandlers(mailer, &fakeDeactivator{})

	task, err := NewCourseUpdatedTask("Go", []string{"a@example.com", "b@example.com"})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	if err := h.HandleCourseUpdated(context.Background(), task); err == nil {
		t.Fatalf("expected error so the broker retries")
	}
}

func TestHandleDeactivateInactiveUsesConfiguredCutoff(t *testing.T) {
	users := &fakeDeactivator{count: 4}
	h := newTestHandlers(&fakeMailer{}, users)

	before := time.Now().Add(-30 * 24 * time.Hour)
	if err := h.HandleDeactivateInactive(context.Background(), NewDeactivateInactiveTask()); err != nil {
		t.Fatalf("handle maintenance task: %v", err)
	}
	after := time.Now().Add(-30 * 24 * time.Hour)

	if users.cutoff.Before(before) || users.cutoff.After(after) {
		t.Fatalf("cutoff %v not thirty days back", users.cutoff)
	}
}

func TestHandleDeactivateInactivePropagatesError(t *testing.T) {
	users := &fakeDeactivator{err: errors.New("db down")}
	h := newTestHandlers(&fakeMailer{}, users)

	if err := h.HandleDeactivateInactive(context.Background(), NewDeactivateInactiveTask()); err == nil {
		t.Fatalf("expected error so the broker retries")
	}
}
