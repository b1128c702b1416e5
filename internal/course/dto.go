// AngelaMos | 2026
// dto.go

package course

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// youtubeURLPattern accepts standard youtube.com watch links only.
var youtubeURLPattern = regexp.MustCompile(
	`^https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`,
)

// RegisterValidations wires the custom video URL rule into a validator
// instance. Must be called before validating lesson payloads.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("youtube_url", func(fl validator.FieldLevel) bool {
		return youtubeURLPattern.MatchString(fl.Field().String())
	})
}

type CreateCourseRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required"`
	Preview     *string `json:"preview"     validate:"omitempty,url"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	Preview     *string `json:"preview"     validate:"omitempty,url"`
}

type CreateLessonRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required"`
	Video       *string `json:"video"       validate:"omitempty,youtube_url"`
}

type UpdateLessonRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	Video       *string `json:"video"       validate:"omitempty,youtube_url"`
}

type CourseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Preview     *string   `json:"preview,omitempty"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

type LessonResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Video       *string `json:"video,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
}

type ListCoursesParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListCoursesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListCoursesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToCourseResponse(c *Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Preview:     c.Preview,
		OwnerID:     c.OwnerID,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}

func ToCourseResponseList(courses []Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, ToCourseResponse(&courses[i]))
	}
	return responses
}

func ToLessonResponse(l *Lesson) LessonResponse {
	return LessonResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Video:       l.Video,
		OwnerID:     l.OwnerID,
	}
}

func ToLessonResponseList(lessons []Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(lessons))
	for i := range lessons {
		responses = append(responses, ToLessonResponse(&lessons[i]))
	}
	return responses
}
