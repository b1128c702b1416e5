// AngelaMos | 2026
// service_test.go

package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/carterperez-dev/courseware/internal/core"
)

type fakeCourseRepo struct {
	courses map[string]*Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*Course)}
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *Course) error {
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("get course: %w", core.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, c *Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return fmt.Errorf("update course: %w", core.ErrNotFound)
	}
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return fmt.Errorf("delete course: %w", core.ErrNotFound)
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) List(ctx context.Context, params ListCoursesParams) ([]Course, int, error) {
	var out []Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCourseRepo) AttachLesson(ctx context.Context, courseID, lessonID string) error {
	return nil
}

func (f *fakeCourseRepo) DetachLesson(ctx context.Context, courseID, lessonID string) error {
	return nil
}

func (f *fakeCourseRepo) LessonsForCourse(ctx context.Context, courseID string) ([]Lesson, error) {
	return nil, nil
}

type fakeLessonRepo struct {
	lessons map[string]*Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[string]*Lesson)}
}

func (f *fakeLessonRepo) Create(ctx context.Context, l *Lesson) error {
	f.lessons[l.ID] = l
	return nil
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, id string) (*Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, fmt.Errorf("get lesson: %w", core.ErrNotFound)
	}
	lp := *l
	return &lp, nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, l *Lesson) error {
	f.lessons[l.ID] = l
	return nil
}

func (f *fakeLessonRepo) Delete(ctx context.Context, id string) error {
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonRepo) List(ctx context.Context, page, pageSize int) ([]Lesson, int, error) {
	return nil, 0, nil
}

type fakeSubscribers struct {
	emails map[string][]string
	err    error
}

func (f *fakeSubscribers) ActiveSubscriberEmails(ctx context.Context, courseID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.emails[courseID], nil
}

type notifyCall struct {
	courseName string
	recipients []string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) CourseUpdated(ctx context.Context, courseName string, recipients []string) error {
	f.calls = append(f.calls, notifyCall{courseName: courseName, recipients: recipients})
	return f.err
}

func newTestService(repo Repository, subs SubscriberSource, notifier UpdateNotifier) *Service {
	return NewService(
		repo,
		newFakeLessonRepo(),
		subs,
		notifier,
		slog.New(slog.DiscardHandler),
	)
}

func TestCreateCourseSetsOwner(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := newTestService(repo, &fakeSubscribers{}, &fakeNotifier{})

	course, err := svc.CreateCourse(context.Background(), "u1", CreateCourseRequest{
		Name:        "Go Fundamentals",
		Description: "basics",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	if course.OwnerID == nil || *course.OwnerID != "u1" {
		t.Fatalf("expected owner u1, got %v", course.OwnerID)
	}
}

func TestUpdateCourseQueuesOneBatchedNotification(t *testing.T) {
	repo := newFakeCourseRepo()
	owner := "u1"
	repo.courses["c1"] = &Course{ID: "c1", Name: "Go", OwnerID: &owner}

	subs := &fakeSubscribers{emails: map[string][]string{
		"c1": {"a@example.com", "b@example.com", "c@example.com"},
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, subs, notifier)

	name := "Go, second edition"
	if _, err := svc.UpdateCourse(context.Background(), "c1", UpdateCourseRequest{Name: &name}); err != nil {
		t.Fatalf("update course: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification task, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.courseName != "Go, second edition" {
		t.Fatalf("notification carries stale name %q", call.courseName)
	}
	if len(call.recipients) != 3 {
		t.Fatalf("expected 3 recipients in one batch, got %d", len(call.recipients))
	}
}

func TestUpdateCourseSkipsNotificationWithoutSubscribers(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["c1"] = &Course{ID: "c1", Name: "Go"}

	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeSubscribers{}, notifier)

	name := "Go v2"
	if _, err := svc.UpdateCourse(context.Background(), "c1", UpdateCourseRequest{Name: &name}); err != nil {
		t.Fatalf("update course: %v", err)
	}

	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notification, got %d", len(notifier.calls))
	}
}

func TestUpdateCourseSucceedsWhenNotificationFails(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["c1"] = &Course{ID: "c1", Name: "Go"}

	subs := &fakeSubscribers{emails: map[string][]string{"c1": {"a@example.com"}}}
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := newTestService(repo, subs, notifier)

	name := "Go v2"
	updated, err := svc.UpdateCourse(context.Background(), "c1", UpdateCourseRequest{Name: &name})
	if err != nil {
		t.Fatalf("update should not fail on notification error: %v", err)
	}
	if updated.Name != "Go v2" {
		t.Fatalf("update not applied, name %q", updated.Name)
	}
}

func TestUpdateCourseSucceedsWhenSubscriberLookupFails(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["c1"] = &Course{ID: "c1", Name: "Go"}

	subs := &fakeSubscribers{err: errors.New("db down")}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, subs, notifier)

	name := "Go v2"
	if _, err := svc.UpdateCourse(context.Background(), "c1", UpdateCourseRequest{Name: &name}); err != nil {
		t.Fatalf("update should not fail on subscriber lookup error: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notification after lookup failure")
	}
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc := newTestService(newFakeCourseRepo(), &fakeSubscribers{}, &fakeNotifier{})

	name := "x"
	_, err := svc.UpdateCourse(context.Background(), "missing", UpdateCourseRequest{Name: &name})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachLessonRequiresBothSides(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["c1"] = &Course{ID: "c1", Name: "Go"}

	lessons := newFakeLessonRepo()
	svc := NewService(repo, lessons, &fakeSubscribers{}, &fakeNotifier{}, slog.New(slog.DiscardHandler))

	err := svc.AttachLesson(context.Background(), "c1", "missing-lesson")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing lesson, got %v", err)
	}

	lessons.lessons["l1"] = &Lesson{ID: "l1", Name: "Intro"}
	if err := svc.AttachLesson(context.Background(), "c1", "l1"); err != nil {
		t.Fatalf("attach lesson: %v", err)
	}
}

func TestYouTubeURLPattern(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=abc_123-XYZ",
	}
	invalid := []string{
		"https://vimeo.com/12345",
		"https://youtu.be/dQw4w9WgXcQ",
		"ftp://youtube.com/watch?v=abc",
		"https://www.youtube.com/playlist?list=abc",
	}

	for _, u := range valid {
		if !youtubeURLPattern.MatchString(u) {
			t.Fatalf("rejected valid video url %q", u)
		}
	}
	for _, u := range invalid {
		if youtubeURLPattern.MatchString(u) {
			t.Fatalf("accepted invalid video url %q", u)
		}
	}
}
