package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/karlbohn/feedback-app/internal/auth"
	dom "github.com/karlbohn/feedback-app/internal/domain"
	"github.com/karlbohn/feedback-app/internal/password"
	"github.com/karlbohn/feedback-app/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

// fakeStore backs both repositories in-memory with the same constraint
// behavior as the Postgres schema (unique username, FK cascade).
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]dom.User
	feedback map[int64]dom.Feedback
	nextID   int64
}

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u.CreatedAt = time.Now()
	r.s.users[u.Username] = u
	return u, nil
}

func (r fakeUserRepo) Delete(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, username)
	for id, f := range r.s.feedback {
		if f.Username == username {
			delete(r.s.feedback, id)
		}
	}
	return nil
}

type fakeFeedbackRepo struct{ s *fakeStore }

func (r fakeFeedbackRepo) Create(_ context.Context, f dom.Feedback) (dom.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[f.Username]; !ok {
		return dom.Feedback{}, &pgconn.PgError{Code: "23503"}
	}
	r.s.nextID++
	f.ID = r.s.nextID
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	r.s.feedback[f.ID] = f
	return f, nil
}

func (r fakeFeedbackRepo) GetByID(_ context.Context, id int64) (dom.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[id]
	if !ok {
		return dom.Feedback{}, pgx.ErrNoRows
	}
	return f, nil
}

func (r fakeFeedbackRepo) ListByUsername(_ context.Context, username string) ([]dom.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []dom.Feedback
	for _, f := range r.s.feedback {
		if f.Username == username {
			list = append(list, f)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r fakeFeedbackRepo) Update(_ context.Context, id int64, title, content string) (dom.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[id]
	if !ok {
		return dom.Feedback{}, pgx.ErrNoRows
	}
	f.Title = title
	f.Content = content
	f.UpdatedAt = time.Now()
	r.s.feedback[id] = f
	return f, nil
}

func (r fakeFeedbackRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.feedback[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.feedback, id)
	return nil
}

// newTestRouter wires the full handler stack against the fake store and
// a miniredis-backed session store, mirroring app.Setup.
func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	store := &fakeStore{users: map[string]dom.User{}, feedback: map[int64]dom.Feedback{}}
	sessions := auth.NewStore(rdb, time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)
	userSvc := service.NewUserService(fakeUserRepo{store}, hasher, nil)
	feedbackSvc := service.NewFeedbackService(fakeFeedbackRepo{store}, nil)

	r := gin.New()
	api := r.Group("/api/v1")

	authHandler := NewAuthHandler(sessions, userSvc)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	userHandler := NewUserHandler(sessions, userSvc, feedbackSvc)
	feedbackHandler := NewFeedbackHandler(feedbackSvc)

	protected := api.Group("", auth.RequireSession(sessions))
	protected.GET("/users/:username", userHandler.GetPage)
	protected.DELETE("/users/:username", userHandler.Delete)
	protected.POST("/users/:username/feedback", feedbackHandler.Create)

	resolved := api.Group("", auth.Resolve(sessions))
	resolved.GET("/feedback/:id", feedbackHandler.GetByID)
	resolved.PATCH("/feedback/:id", feedbackHandler.Update)
	resolved.DELETE("/feedback/:id", feedbackHandler.Delete)

	return r, store
}

// doJSON performs a request with an optional session cookie and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from a response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.SessionCookieName)
	return nil
}

// register creates a user through the API and returns its session cookie.
func register(t *testing.T, r *gin.Engine, username string) *http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username":   username,
		"password":   "sekret-pass",
		"email":      username + "@example.com",
		"first_name": "First",
		"last_name":  "Last",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())
	return sessionCookie(t, w)
}
