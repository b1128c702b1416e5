// AngelaMos | 2026
// handler_test.go

package course

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/courseware/internal/middleware"
)

// asIdentity stands in for the authenticator, stamping a fixed identity
// onto every request.
func asIdentity(userID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(t *testing.T, userID, role string) (chi.Router, *fakeCourseRepo, *fakeLessonRepo) {
	t.Helper()

	courseRepo := newFakeCourseRepo()
	lessonRepo := newFakeLessonRepo()
	svc := NewService(
		courseRepo,
		lessonRepo,
		&fakeSubscribers{},
		&fakeNotifier{},
		slog.New(slog.DiscardHandler),
	)

	handler, err := NewHandler(svc)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	lessonHandler, err := NewLessonHandler(svc)
	if err != nil {
		t.Fatalf("new lesson handler: %v", err)
	}

	r := chi.NewRouter()
	handler.RegisterRoutes(r, asIdentity(userID, role))
	lessonHandler.RegisterRoutes(r, asIdentity(userID, role))

	return r, courseRepo, lessonRepo
}

func get(r chi.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetCourseRequiresOwnershipOrModerator(t *testing.T) {
	owner := "owner-1"

	tests := []struct {
		name     string
		userID   string
		role     string
		wantCode int
	}{
		{"owner reads own course", "owner-1", "member", http.StatusOK},
		{"moderator reads any course", "mod-1", "moderator", http.StatusOK},
		{"member denied on foreign course", "other-1", "member", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, courseRepo, _ := newTestRouter(t, tt.userID, tt.role)
			courseRepo.courses["c1"] = &Course{
				ID:      "c1",
				Name:    "Go Fundamentals",
				OwnerID: &owner,
			}

			rec := get(r, "/courses/c1")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestGetLessonRequiresOwnershipOrModerator(t *testing.T) {
	owner := "owner-1"

	tests := []struct {
		name     string
		userID   string
		role     string
		wantCode int
	}{
		{"owner reads own lesson", "owner-1", "member", http.StatusOK},
		{"moderator reads any lesson", "mod-1", "moderator", http.StatusOK},
		{"member denied on foreign lesson", "other-1", "member", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, lessonRepo := newTestRouter(t, tt.userID, tt.role)
			lessonRepo.lessons["l1"] = &Lesson{
				ID:      "l1",
				Name:    "Interfaces",
				OwnerID: &owner,
			}

			rec := get(r, "/lessons/l1")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
