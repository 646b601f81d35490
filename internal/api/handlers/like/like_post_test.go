package like

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/likes"
	"Murmur/internal/core/store"
)

type mockLikeService struct {
	likeFunc func(ctx context.Context, userID, postID int64) (*likes.Result, error)
}

func (m *mockLikeService) LikePost(ctx context.Context, userID, postID int64) (*likes.Result, error) {
	return m.likeFunc(ctx, userID, postID)
}

func (m *mockLikeService) ReconcileCounts(context.Context) (int64, error) {
	return 0, nil
}

// injectUser stands in for the auth middleware
func injectUser(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.SetTestUserID(r.Context(), userID)))
		})
	}
}

func newRouter(service likes.Service, userID int64) http.Handler {
	r := chi.NewRouter()
	r.With(injectUser(userID)).Post("/posts/{id}/like", NewLikePostHandler(service).HandleLikePost)
	return r
}

func TestLikePostHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		result     *likes.Result
		err        error
		name       string
		path       string
		wantBody   string
		wantStatus int
	}{
		{
			name: "liked", path: "/posts/10/like",
			result:     &likes.Result{Status: likes.StatusLiked, PostID: 10, LikeCount: 3},
			wantStatus: http.StatusOK, wantBody: `{"status":"liked","postId":10,"likeCount":3}`,
		},
		{
			name: "already liked", path: "/posts/10/like",
			result:     &likes.Result{Status: likes.StatusAlreadyLiked, PostID: 10},
			wantStatus: http.StatusConflict, wantBody: `{"status":"already-liked","postId":10}`,
		},
		{
			name: "missing post", path: "/posts/10/like",
			err:        likes.ErrPostNotFound,
			wantStatus: http.StatusNotFound, wantBody: `{"error":"PostNotFound","message":"Post not found"}`,
		},
		{
			name: "store failure", path: "/posts/10/like",
			err:        store.Wrap("likes.commit", errors.New("serialization failure")),
			wantStatus: http.StatusInternalServerError, wantBody: `{"error":"InternalServerError","message":"An internal error occurred"}`,
		},
		{
			name: "bad id", path: "/posts/ten/like",
			wantStatus: http.StatusBadRequest, wantBody: `{"error":"InvalidRequest","message":"post id must be a positive integer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockLikeService{
				likeFunc: func(_ context.Context, userID, postID int64) (*likes.Result, error) {
					assert.Equal(t, int64(4), userID)
					return tt.result, tt.err
				},
			}

			w := httptest.NewRecorder()
			newRouter(service, 4).ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestLikePostHandler_Unauthenticated(t *testing.T) {
	service := &mockLikeService{
		likeFunc: func(context.Context, int64, int64) (*likes.Result, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	r := chi.NewRouter()
	r.Post("/posts/{id}/like", NewLikePostHandler(service).HandleLikePost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts/1/like", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AuthRequired", resp["error"])
}
