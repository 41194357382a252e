package api

import (
	"fmt"      // Error message formatting
	"net/http" // HTTP status codes

	"user_management/internal/errs"  // Failure kinds
	"user_management/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// LoginRequest is the login body. Fields are validated by hand so a
// missing one maps to its own error entry.
type LoginRequest struct {
	Email    string `json:"email"`    // Registered email
	Password string `json:"password"` // Plaintext password
}

// LoginSummary is the user summary returned beside the access token
type LoginSummary struct {
	ID       uint   `json:"id"`       // User ID
	Email    string `json:"email"`    // Email
	Username string `json:"username"` // Display name
}

// LoginHandler authenticates a user by email and password and issues a
// 24-hour bearer token bound to the email identity
func LoginHandler(users UserStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errs.Respond(c, errs.RequestDataEmpty())
			return
		}
		if req.Email == "" {
			errs.Respond(c, errs.ValidateFail("email", "Missing email parameter"))
			return
		}
		if req.Password == "" {
			errs.Respond(c, errs.ValidateFail("password", "Missing password parameter"))
			return
		}
		user, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			errs.Respond(c, err)
			return
		}
		// A nil user means no such member, reported as 401 like a bad password
		if user == nil {
			errs.RespondWith(c, http.StatusUnauthorized,
				errs.NotFound(fmt.Sprintf("Requested %s is not a registered member", req.Email)))
			return
		}
		if !users.CheckPassword(req.Password, user) {
			logrus.WithField("email", req.Email).Error("Login failed: bad password")
			errs.Respond(c, errs.BadCredentials("Bad username or password"))
			return
		}
		token, err := utils.GenerateJWT(user.Email, jwtSecret)
		if err != nil {
			errs.Respond(c, errs.SQL(err))
			return
		}
		logrus.WithField("email", req.Email).Info("Login success")
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"access_token": token,
				"user": LoginSummary{
					ID:       user.ID,
					Email:    user.Email,
					Username: user.Name,
				},
			},
		})
	}
}
