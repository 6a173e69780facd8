package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/narayanji/distributor-app/internal/app/service"
	apperrors "github.com/narayanji/distributor-app/internal/errors"
	"github.com/narayanji/distributor-app/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type requestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name"`
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestOTP handles POST /auth/otp/request
func (ctrl *AuthController) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Phone number is required")
		return
	}

	if err := ctrl.authService.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, service.ErrInvalidPhone) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Enter a valid phone number")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to request OTP", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOTP handles POST /auth/otp/verify
func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Phone number and code are required")
		return
	}

	session, user, err := ctrl.authService.VerifyOTP(c.Request.Context(), req.Phone, req.Code, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthCodeInvalid,
				"The code is incorrect or has expired")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to verify OTP", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"user":    user,
	})
}

// AdminLogin handles POST /auth/admin/login
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Email and password are required")
		return
	}

	session, user, err := ctrl.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials,
				"Invalid email or password")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Admin login failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"user":    user,
	})
}

// Me handles GET /auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUser(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load user profile", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
