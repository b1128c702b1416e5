// AngelaMos | 2026
// service.go

package course

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// SubscriberSource yields the emails of users actively subscribed to a
// course. Implemented by the subscription service.
type SubscriberSource interface {
	ActiveSubscriberEmails(
		ctx context.Context,
		courseID string,
	) ([]string, error)
}

// UpdateNotifier queues a course-changed announcement for a batch of
// recipients. Implemented by the notify task client.
type UpdateNotifier interface {
	CourseUpdated(
		ctx context.Context,
		courseName string,
		recipients []string,
	) error
}

type Service struct {
	repo        Repository
	lessons     LessonRepository
	subscribers SubscriberSource
	notifier    UpdateNotifier
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	lessons LessonRepository,
	subscribers SubscriberSource,
	notifier UpdateNotifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		lessons:     lessons,
		subscribers: subscribers,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *Service) CreateCourse(
	ctx context.Context,
	ownerID string,
	req CreateCourseRequest,
) (*Course, error) {
	course := &Course{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Preview:     req.Preview,
		OwnerID:     &ownerID,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *Service) GetCourse(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCourses(
	ctx context.Context,
	params ListCoursesParams,
) ([]Course, int, error) {
	return s.repo.List(ctx, params)
}

// UpdateCourse applies the changes and announces them to every active
// subscriber. The announcement is queued after the write commits and is
// never allowed to fail the update.
func (s *Service) UpdateCourse(
	ctx context.Context,
	id string,
	req UpdateCourseRequest,
) (*Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Preview != nil {
		course.Preview = req.Preview
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.notifySubscribers(ctx, course)

	return course, nil
}

func (s *Service) notifySubscribers(ctx context.Context, course *Course) {
	recipients, err := s.subscribers.ActiveSubscriberEmails(ctx, course.ID)
	if err != nil {
		s.logger.Error("collect course subscribers",
			slog.String("course_id", course.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if len(recipients) == 0 {
		return
	}

	// One task carries the whole recipient batch.
	if err := s.notifier.CourseUpdated(ctx, course.Name, recipients); err != nil {
		s.logger.Error("queue course update notification",
			slog.String("course_id", course.ID),
			slog.Int("recipients", len(recipients)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AttachLesson(
	ctx context.Context,
	courseID, lessonID string,
) error {
	if _, err := s.repo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		return err
	}

	return s.repo.AttachLesson(ctx, courseID, lessonID)
}

func (s *Service) DetachLesson(
	ctx context.Context,
	courseID, lessonID string,
) error {
	return s.repo.DetachLesson(ctx, courseID, lessonID)
}

func (s *Service) CourseLessons(
	ctx context.Context,
	courseID string,
) ([]Lesson, error) {
	if _, err := s.repo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	return s.repo.LessonsForCourse(ctx, courseID)
}

// CourseName is the lookup the subscription flow needs before it will
// accept a subscribe request.
func (s *Service) CourseName(ctx context.Context, id string) (string, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return course.Name, nil
}

func (s *Service) CreateLesson(
	ctx context.Context,
	ownerID string,
	req CreateLessonRequest,
) (*Lesson, error) {
	lesson := &Lesson{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Video:       req.Video,
		OwnerID:     &ownerID,
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

func (s *Service) GetLesson(ctx context.Context, id string) (*Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

func (s *Service) ListLessons(
	ctx context.Context,
	page, pageSize int,
) ([]Lesson, int, error) {
	return s.lessons.List(ctx, page, pageSize)
}

func (s *Service) UpdateLesson(
	ctx context.Context,
	id string,
	req UpdateLessonRequest,
) (*Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		lesson.Name = *req.Name
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Video != nil {
		lesson.Video = req.Video
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

func (s *Service) DeleteLesson(ctx context.Context, id string) error {
	return s.lessons.Delete(ctx, id)
}
