package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed returns the authenticated user's home feed.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.feedService.Home(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetTrending returns the most liked posts of the last 7 days.
func (s *Server) GetTrending(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.feedService.Trending(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetTagFeed returns the posts carrying a tag.
func (s *Server) GetTagFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tag, posts, err := s.feedService.ByTag(c.UserContext(), currentUserID(c), c.Params("slug"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"tag":   tag,
		"posts": posts,
	})
}

// GetPopularTags returns the most used tags.
func (s *Server) GetPopularTags(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tags, err := s.feedService.PopularTags(c.UserContext(), p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}
