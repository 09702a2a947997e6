package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates a dashboard admin
// POST /api/v1/admin/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   result.User,
		"tokens": result.Tokens,
	})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/admin/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the current access token and, when given, the refresh token
// POST /api/v1/admin/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	access, _ := middleware.GetToken(c)
	if err := ctrl.authService.Logout(c.Request.Context(), access, req.RefreshToken); err != nil {
		respondError(c, err, "logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

// Me returns the authenticated admin
// GET /api/v1/admin/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	admin, err := ctrl.authService.Me(userID)
	if err != nil {
		respondError(c, err, "get admin")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": admin})
}
