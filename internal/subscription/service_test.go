// AngelaMos | 2026
// service_test.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/carterperez-dev/courseware/internal/core"
)

type subKey struct {
	userID   string
	courseID string
}

// fakeRepo mirrors the single-row-per-pair behavior of the real table:
// upserts collapse onto the existing row for a (user, course) pair.
type fakeRepo struct {
	rows map[subKey]*Subscription
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[subKey]*Subscription)}
}

func (f *fakeRepo) FindActive(ctx context.Context, userID, courseID string) (*Subscription, error) {
	row, ok := f.rows[subKey{userID, courseID}]
	if !ok || !row.IsActive {
		return nil, fmt.Errorf("find subscription: %w", core.ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, sub *Subscription) error {
	key := subKey{sub.UserID, sub.CourseID}
	if existing, ok := f.rows[key]; ok {
		existing.IsActive = true
		*sub = *existing
		return nil
	}
	sub.IsActive = true
	cp := *sub
	f.rows[key] = &cp
	return nil
}

func (f *fakeRepo) Deactivate(ctx context.Context, userID, courseID string) error {
	row, ok := f.rows[subKey{userID, courseID}]
	if !ok {
		return fmt.Errorf("deactivate subscription: %w", core.ErrNotFound)
	}
	row.IsActive = false
	return nil
}

func (f *fakeRepo) ListActiveForUser(ctx context.Context, userID string) ([]Subscription, error) {
	var out []Subscription
	for key, row := range f.rows {
		if key.userID == userID && row.IsActive {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeRepo) ActiveSubscriberEmails(ctx context.Context, courseID string) ([]string, error) {
	return nil, nil
}

type fakeCatalog struct {
	names map[string]string
}

func (f *fakeCatalog) CourseName(ctx context.Context, courseID string) (string, error) {
	name, ok := f.names[courseID]
	if !ok {
		return "", fmt.Errorf("get course: %w", core.ErrNotFound)
	}
	return name, nil
}

type sentMail struct {
	kind       string
	email      string
	courseName string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (f *fakeNotifier) SubscriptionConfirmed(ctx context.Context, email, courseName string) error {
	f.sent = append(f.sent, sentMail{"confirmed", email, courseName})
	return f.err
}

func (f *fakeNotifier) Unsubscribed(ctx context.Context, email, courseName string) error {
	f.sent = append(f.sent, sentMail{"unsubscribed", email, courseName})
	return f.err
}

func newTestService(repo Repository, notifier Notifier) *Service {
	catalog := &fakeCatalog{names: map[string]string{"c1": "Go Fundamentals"}}
	return NewService(repo, catalog, notifier, slog.New(slog.DiscardHandler))
}

func TestSubscribeCreatesActiveRowAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	sub, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !sub.IsActive {
		t.Fatalf("new subscription not active")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	mail := notifier.sent[0]
	if mail.kind != "confirmed" || mail.email != "u1@example.com" || mail.courseName != "Go Fundamentals" {
		t.Fatalf("unexpected notification %+v", mail)
	}
}

func TestSubscribeUnknownCourse(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("subscription row created for unknown course")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("notification sent for unknown course")
	}
}

func TestSubscribeTwiceRejected(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	if _, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}

	_, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("duplicate row created, have %d", len(repo.rows))
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected only the original notification, got %d", len(notifier.sent))
	}
}

func TestResubscribeRevivesSameRow(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	first, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	second, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("resubscribe created a new row: %s vs %s", first.ID, second.ID)
	}
	if !second.IsActive {
		t.Fatalf("revived subscription not active")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected exactly one row, have %d", len(repo.rows))
	}
}

func TestUnsubscribeWithoutSubscriptionRow(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	err := svc.Unsubscribe(context.Background(), "u1", "u1@example.com", "c1")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("notification sent without subscription")
	}
}

func TestUnsubscribeTwiceSucceeds(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	if _, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("first unsubscribe: %v", err)
	}

	// The row still exists, just inactive. Unsubscribing again is fine.
	if err := svc.Unsubscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}

	if row := repo.rows[subKey{"u1", "c1"}]; row == nil || row.IsActive {
		t.Fatalf("subscription should remain inactive, got %+v", row)
	}
}

func TestUnsubscribeNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	if _, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), "u1", "u1@example.com", "c1"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	last := notifier.sent[len(notifier.sent)-1]
	if last.kind != "unsubscribed" || last.courseName != "Go Fundamentals" {
		t.Fatalf("unexpected notification %+v", last)
	}
}

func TestSubscribeSucceedsWhenNotifierFails(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := newTestService(repo, notifier)

	sub, err := svc.Subscribe(context.Background(), "u1", "u1@example.com", "c1")
	if err != nil {
		t.Fatalf("subscribe should not fail on notifier error: %v", err)
	}
	if !sub.IsActive {
		t.Fatalf("subscription not active")
	}
}
