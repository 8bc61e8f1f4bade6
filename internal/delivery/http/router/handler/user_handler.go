// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"tradegate/internal/delivery/http/middleware"
	"tradegate/internal/delivery/http/response"
	"tradegate/internal/domain/entity"
	"tradegate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC    usecase.UserUsecase
	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// UserHandler holds dependencies for account and session handlers.
type UserHandler struct {
	userUC    usecase.UserUsecase
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC:    params.UserUC,
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// RegisterRequest represents the request body for marketplace registration.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	UserType     string `json:"user_type" validate:"required,oneof=buyer exporter"`
	Country      string `json:"country" validate:"required"`
	CompanyName  string `json:"company_name" validate:"required"`
	Phone        string `json:"phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// LoginRequest represents the request body for email login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for refreshing an access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GoogleCallbackRequest represents the request body for Google Sign-In.
type GoogleCallbackRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateProfileRequest represents the request body for editing the own profile.
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	CompanyName  string `json:"company_name"`
	Phone        string `json:"phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// DeviceTokenRequest represents the request body for registering a push token.
type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token"`
}

// Register handles the marketplace registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.userUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		UserType:     entity.UserType(req.UserType),
		Country:      req.Country,
		CompanyName:  req.CompanyName,
		Phone:        req.Phone,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, output.User, "Registration submitted, awaiting approval")
}

// Login handles the email login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.userUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RefreshToken handles the token refresh request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.userUC.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the logout request for the current session.
func (h *UserHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}

	if err := h.userUC.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// LogoutAllDevices ends every session of the authenticated account.
func (h *UserHandler) LogoutAllDevices(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	if err := h.userUC.LogoutAllDevices(c.Request().Context(), p.ID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out from all devices")
}

// GoogleCallback handles the Google Sign-In callback.
func (h *UserHandler) GoogleCallback(c echo.Context) error {
	var req GoogleCallbackRequest
	if idToken := c.FormValue("id_token"); idToken != "" {
		req.IDToken = idToken
	} else if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google callback input")
	}
	if req.IDToken == "" {
		return response.BadRequest(c, "INVALID_INPUT", "ID token is required")
	}

	output, err := h.userUC.GoogleCallback(c.Request().Context(), &usecase.GoogleCallbackInput{
		IDToken: req.IDToken,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Google authentication successful")
}

// GetProfile returns the authenticated account with its trade profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	user, err := h.profileUC.GetOwnProfile(c.Request().Context(), p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user, "Profile retrieved successfully")
}

// UpdateProfile edits the authenticated account's trade profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	user, err := h.profileUC.UpdateOwnProfile(c.Request().Context(), p, &usecase.UpdateProfileInput{
		Name:         req.Name,
		Country:      req.Country,
		CompanyName:  req.CompanyName,
		Phone:        req.Phone,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated successfully")
}

// UpdateDeviceToken stores or clears the push token of the account's device.
func (h *UserHandler) UpdateDeviceToken(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req DeviceTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device token input")
	}

	if err := h.profileUC.UpdateDeviceToken(c.Request().Context(), p, req.DeviceToken); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Device token updated")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
