package routes

import (
	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/handlers/feed"
	"Murmur/internal/api/handlers/like"
	"Murmur/internal/api/handlers/post"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/likes"
	"Murmur/internal/core/posts"
	"Murmur/internal/core/timeline"
)

// RegisterPostRoutes registers post, feed and like endpoints on the router
// All of them require authentication
func RegisterPostRoutes(
	r chi.Router,
	postService posts.Service,
	timelineService timeline.Service,
	likeService likes.Service,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Initialize handlers
	createHandler := post.NewCreateHandler(postService)
	getHandler := post.NewGetHandler(postService)
	feedHandler := feed.NewGetFeedHandler(timelineService)
	likeHandler := like.NewLikePostHandler(likeService)

	r.Route("/posts", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Post("/", createHandler.HandleCreate)
		// Static segment wins over {id}
		r.Get("/feed", feedHandler.HandleGetFeed)
		r.Get("/{id}", getHandler.HandleGet)
		r.Post("/{id}/like", likeHandler.HandleLikePost)
	})
}
