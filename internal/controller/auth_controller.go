package controller

import (
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authSvc *service.AuthService
}

func NewAuthController(authSvc *service.AuthService) *AuthController {
	return &AuthController{authSvc: authSvc}
}

// Register godoc
// @Summary Register a teacher account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "registration data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctl.authSvc.Register(input)
	if err != nil {
		respondServiceError(c, "register", err)
		return
	}
	util.Created(c, user)
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "credentials"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctl.authSvc.Login(input)
	if err != nil {
		respondServiceError(c, "login", err)
		return
	}
	util.Success(c, result)
}

// Profile godoc
// @Summary Get the current user's profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /auth/profile [get]
func (ctl *AuthController) Profile(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	user, err := ctl.authSvc.Profile(auth.UserID)
	if err != nil {
		respondServiceError(c, "load profile", err)
		return
	}
	util.Success(c, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body changePasswordRequest true "passwords"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/password [put]
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctl.authSvc.ChangePassword(auth.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, "change password", err)
		return
	}
	util.SuccessWithMessage(c, "password updated", nil)
}
