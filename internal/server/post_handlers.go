package server

import (
	"log/slog"

	"socialwall/internal/middleware"
	"socialwall/internal/models"
	"socialwall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes a JSON or form body into out. An empty body leaves out
// untouched so that missing fields surface as validation errors.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// respondWithError logs storage failures before answering with fallback.
func respondWithError(c *fiber.Ctx, err error, fallback string) error {
	if models.StatusFor(err) == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), fallback, slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, err, fallback)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Returns every post, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondWithError(c, err, "Failed to fetch posts")
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Creates a post stamped with this instance's region
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "New post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return respondWithError(c, err, "Failed to create post")
	}

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondWithError(c, err, "Failed to create post")
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Description Replaces the message of a post and records the updating region
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body service.UpdatePostInput true "New message"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req service.UpdatePostInput
	if err := parseBody(c, &req); err != nil {
		return respondWithError(c, err, "Failed to update post")
	}

	post, err := s.postService.UpdatePost(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondWithError(c, err, "Failed to update post")
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return respondWithError(c, err, "Failed to delete post")
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// DeleteAllPosts handles DELETE /api/posts
// @Summary Delete all posts
// @Tags posts
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [delete]
func (s *Server) DeleteAllPosts(c *fiber.Ctx) error {
	if err := s.postService.DeleteAllPosts(c.UserContext()); err != nil {
		return respondWithError(c, err, "Failed to delete posts")
	}

	return c.JSON(fiber.Map{"message": "All posts deleted"})
}
