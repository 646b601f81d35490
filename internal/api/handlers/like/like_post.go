package like

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/handlers"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/likes"
)

// LikePostHandler handles like requests
type LikePostHandler struct {
	service likes.Service
}

// NewLikePostHandler creates a new like handler
func NewLikePostHandler(service likes.Service) *LikePostHandler {
	return &LikePostHandler{
		service: service,
	}
}

// HandleLikePost handles POST /posts/{id}/like
// 200 {"status":"liked"} when the like was recorded,
// 409 {"status":"already-liked"} when the user had already liked the post.
func (h *LikePostHandler) HandleLikePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "post id must be a positive integer")
		return
	}

	result, err := h.service.LikePost(r.Context(), userID, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == likes.StatusAlreadyLiked {
		status = http.StatusConflict
	}
	handlers.WriteJSON(w, status, result)
}
