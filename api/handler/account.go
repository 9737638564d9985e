package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/account"
	"github.com/use-agent/studyhub/models"
)

// Register returns a handler for POST /api/register.
func Register(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.Credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.MessageResponse{Message: "Invalid request: " + err.Error()})
			return
		}

		if err := accounts.Register(c.Request.Context(), req.Username, req.Password); err != nil {
			if errors.Is(err, account.ErrUserExists) {
				c.AbortWithStatusJSON(http.StatusBadRequest, models.MessageResponse{Message: "Username already exists"})
				return
			}
			if errors.Is(err, account.ErrInvalidUsername) {
				c.AbortWithStatusJSON(http.StatusBadRequest, models.MessageResponse{Message: "Invalid request: username must be 3 to 64 characters"})
				return
			}
			slog.Error("register failed", "username", req.Username, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.MessageResponse{Message: "Server error"})
			return
		}

		c.JSON(http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
	}
}

// Login returns a handler for POST /api/login.
func Login(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.Credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Message: "Invalid credentials"})
			return
		}

		token, err := accounts.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Message: "Invalid credentials"})
				return
			}
			slog.Error("login failed", "username", req.Username, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.MessageResponse{Message: "Server error"})
			return
		}

		c.JSON(http.StatusOK, models.TokenResponse{Token: token})
	}
}
