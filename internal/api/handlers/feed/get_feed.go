package feed

import (
	"net/http"

	"Murmur/internal/api/handlers"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/timeline"
)

// GetFeedHandler serves the authenticated user's home feed
type GetFeedHandler struct {
	service timeline.Service
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service timeline.Service) *GetFeedHandler {
	return &GetFeedHandler{
		service: service,
	}
}

// HandleGetFeed handles GET /posts/feed?cursor=...
// Response: { "feed": [...], "nextCursor": "..." | null }
// Pass nextCursor back unchanged to read the following page; an empty feed
// with a null cursor means the end was reached.
func (h *GetFeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated to view feed")
		return
	}

	req := timeline.GetFeedRequest{UserID: userID}
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		req.Cursor = &cursor
	}

	page, err := h.service.GetFeed(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, page)
}
