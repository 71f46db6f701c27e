package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/service"
)

// AuthController 认证接口
type AuthController struct {
	userSvc *service.UserService
}

func NewAuthController(userSvc *service.UserService) *AuthController {
	return &AuthController{userSvc: userSvc}
}

// Register 注册
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	user, err := c.userSvc.Register(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": user})
}

// Login 登录
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.userSvc.Login(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// Refresh 刷新 Token
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.userSvc.RefreshToken(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// Profile 当前用户信息
func (c *AuthController) Profile(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	user, err := c.userSvc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": user})
}

// ChangePassword 修改密码
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	if err := c.userSvc.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "密码修改成功"})
}
