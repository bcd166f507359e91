package controller

import (
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// @Summary Register
// @Description Create an account with a default profile and receive a token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body service.RegisterRequest true "Account"
// @Success 201 {object} util.Response{data=service.RegisterResult}
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary Obtain token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/token [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	token, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token})
}

// @Summary Logout
// @Description Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Successfully logged out."})
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserView}
// @Router /api/v1/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	user, err := c.AuthService.Me(ctx.Request.Context(), owner.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
