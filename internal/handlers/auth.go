package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	// "username" kept alongside "email" for OAuth2 password-flow clients.
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login exchanges email+password for a bearer access token.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid login payload", err))
		return
	}
	email := req.Email
	if email == "" {
		email = req.Username
	}
	token, err := ah.authService.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"access_token": token, "token_type": "bearer"})
}
