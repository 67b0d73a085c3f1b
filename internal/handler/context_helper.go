package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/middleware"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/session"
)

func sessionUser(c *gin.Context) *session.User {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*session.User)
	if !ok {
		return nil
	}
	return user
}

// homeRoute is the dashboard a role lands on.
func homeRoute(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleStudent:
		return "/student/dashboard"
	}
	return "/login"
}
