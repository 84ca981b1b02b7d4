package api

import (
	"net/http" // HTTP status codes

	"opportunity_hub/internal/service" // Account rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account and returns a token for it
func RegisterHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		token, err := accounts.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		token, err := accounts.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}

// DeleteAccountHandler removes the caller's account and everything it owns
func DeleteAccountHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := accounts.Delete(c.Request.Context(), id.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
	}
}
