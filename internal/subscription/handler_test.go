// AngelaMos | 2026
// handler_test.go

package subscription

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/courseware/internal/middleware"
)

type rejectAllVerifier struct{}

func (rejectAllVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	return nil, errors.New("invalid token")
}

func TestSubscribeUnauthenticated(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	catalog := &fakeCatalog{names: map[string]string{"c1": "Go Fundamentals"}}
	svc := NewService(repo, catalog, notifier, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(rejectAllVerifier{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses/c1/subscribe", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("subscription row created without authentication")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("notification queued without authentication")
	}
}
