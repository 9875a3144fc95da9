package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// pagination reads the skip/limit query parameters with the listing
// defaults used across the API.
func pagination(c *gin.Context, defaultLimit int) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}

func (uh *UserHandler) List(c *gin.Context) {
	skip, limit := pagination(c, 100)
	users, err := uh.userService.List(c.Request.Context(), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}

type userCreateRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Organization string `json:"organization"`
	IsActive     *bool  `json:"is_active"`
	IsSuperuser  bool   `json:"is_superuser"`
}

func (uh *UserHandler) Create(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid user payload", err))
		return
	}
	user, err := uh.userService.Create(c.Request.Context(), services.UserCreate{
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
		IsActive:     req.IsActive,
		IsSuperuser:  req.IsSuperuser,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

type userOpenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (uh *UserHandler) CreateOpen(c *gin.Context) {
	var req userOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid registration payload", err))
		return
	}
	user, err := uh.userService.CreateOpen(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	RespondOK(c, PrincipalFrom(c))
}

type userUpdateRequest struct {
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Organization *string `json:"organization"`
	IsActive     *bool   `json:"is_active"`
	IsSuperuser  *bool   `json:"is_superuser"`
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid user payload", err))
		return
	}
	user, err := uh.userService.UpdateMe(c.Request.Context(), PrincipalFrom(c), services.UserUpdate{
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		RespondError(c, apperr.Validation("invalid user id"))
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), PrincipalFrom(c), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

// Update is the superuser path for changing any account, including
// activation and privilege flags.
func (uh *UserHandler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		RespondError(c, apperr.Validation("invalid user id"))
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid user payload", err))
		return
	}
	user, err := uh.userService.Update(c.Request.Context(), userID, services.UserUpdate{
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
		IsActive:     req.IsActive,
		IsSuperuser:  req.IsSuperuser,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}
