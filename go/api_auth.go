package courierserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/courier-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
)

// AuthAPI implements customer sign-up and sessions.
type AuthAPI struct {
	service userports.Service
}

func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/auth/register
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "User registered successfully",
		"customerId": user.ID,
		"user":       userhttpmapper.FromDomainUser(user),
	})
}

// Post /api/auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.Email == "" || payload.Password == "" {
		respondBadRequest(c, "email and password are required")
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromLoginResult(result))
}

// Post /api/auth/logout
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Post /api/auth/forgot-password
func (api *AuthAPI) ForgotPassword(c *gin.Context) {
	var payload userhttpmapper.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if !strings.Contains(payload.Email, "@") {
		respondBadRequest(c, "valid email is required")
		return
	}
	if err := api.service.RequestPasswordReset(c.Request.Context(), payload.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// Post /api/auth/reset-password
// Signs the account out of every device on success.
func (api *AuthAPI) ResetPassword(c *gin.Context) {
	var payload userhttpmapper.ResetPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.Email == "" || payload.Code == "" || payload.NewPassword == "" {
		respondBadRequest(c, "email, code and newPassword are required")
		return
	}
	if err := api.service.ResetPassword(c.Request.Context(), payload.Email, payload.Code, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful. Please log in again."})
}

// Get /api/auth/profile
func (api *AuthAPI) GetProfile(c *gin.Context) {
	user, err := api.service.Get(c.Request.Context(), principalFrom(c).Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Patch /api/auth/profile
func (api *AuthAPI) UpdateProfile(c *gin.Context) {
	var payload userhttpmapper.ProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	user, err := api.service.UpdateProfile(c.Request.Context(), principalFrom(c).Subject, userhttpmapper.ToProfileUpdate(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": userhttpmapper.FromDomainUser(user)})
}
