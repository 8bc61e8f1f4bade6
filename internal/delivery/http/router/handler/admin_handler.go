package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"tradegate/internal/delivery/http/middleware"
	"tradegate/internal/delivery/http/response"
	"tradegate/internal/domain/entity"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	AdminUC usecase.AdminUsecase
	Logger  *slog.Logger
}

// AdminHandler holds dependencies for back-office handlers.
type AdminHandler struct {
	adminUC usecase.AdminUsecase
	logger  *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler.
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		adminUC: params.AdminUC,
		logger:  params.Logger,
	}
}

// AdminLoginRequest represents the back-office login request body.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DecideProfileRequest represents the approval decision request body.
type DecideProfileRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected deleted"`
}

// CreateSubAdminRequest represents the sub-admin creation request body.
type CreateSubAdminRequest struct {
	Username          string   `json:"username" validate:"required"`
	Password          string   `json:"password" validate:"required"`
	Email             string   `json:"email" validate:"omitempty,email"`
	FullName          string   `json:"full_name"`
	AssignedCountries []string `json:"assigned_countries"`
}

// UpdateCountriesRequest represents the grant replacement request body. An
// empty list is legal and leaves the sub-admin with no visibility.
type UpdateCountriesRequest struct {
	AssignedCountries []string `json:"assigned_countries"`
}

// SetActiveRequest represents the activation toggle request body.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ApproveCategoryRequest represents the category approval request body.
type ApproveCategoryRequest struct {
	Approved bool `json:"approved"`
}

// Login authenticates a full administrator.
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.adminUC.AdminLogin(c.Request().Context(), &usecase.AdminLoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// SubAdminLogin authenticates a country-scoped administrator.
func (h *AdminHandler) SubAdminLogin(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.adminUC.SubAdminLogin(c.Request().Context(), &usecase.AdminLoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// ListProfiles returns trade profiles visible to the acting principal.
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.adminUC.ListProfiles(c.Request().Context(), p, &usecase.ProfileListInput{
		Status:   c.QueryParam("status"),
		UserType: entity.UserType(c.QueryParam("user_type")),
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, users, "Profiles retrieved successfully")
}

// DecideProfile applies an approval decision to a trade profile.
func (h *AdminHandler) DecideProfile(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	var req DecideProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid decision input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.adminUC.DecideProfile(c.Request().Context(), p, userID, entity.ApprovalStatus(req.Status)); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Decision applied")
}

// CreateSubAdmin provisions a new country-scoped administrator.
func (h *AdminHandler) CreateSubAdmin(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req CreateSubAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sub-admin input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	account, err := h.adminUC.CreateSubAdmin(c.Request().Context(), p, &usecase.CreateSubAdminInput{
		Username:          req.Username,
		Password:          req.Password,
		Email:             req.Email,
		FullName:          req.FullName,
		AssignedCountries: req.AssignedCountries,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, account, "Sub-admin created successfully")
}

// ListSubAdmins returns every sub-admin grant.
func (h *AdminHandler) ListSubAdmins(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	accounts, err := h.adminUC.ListSubAdmins(c.Request().Context(), p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, accounts, "Sub-admins retrieved successfully")
}

// UpdateSubAdminCountries replaces a sub-admin's country grant.
func (h *AdminHandler) UpdateSubAdminCountries(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid sub-admin ID")
	}

	var req UpdateCountriesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid grant input")
	}

	if err := h.adminUC.UpdateSubAdminCountries(c.Request().Context(), p, id, req.AssignedCountries); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Grant updated")
}

// SetSubAdminActive activates or revokes a sub-admin.
func (h *AdminHandler) SetSubAdminActive(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid sub-admin ID")
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid state input")
	}

	if err := h.adminUC.SetSubAdminActive(c.Request().Context(), p, id, req.Active); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Sub-admin state updated")
}

// ListContactMessages returns the contact inbox.
func (h *AdminHandler) ListContactMessages(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	unreadOnly := c.QueryParam("unread") == "true"

	messages, err := h.adminUC.ListContactMessages(c.Request().Context(), p, unreadOnly, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, messages, "Messages retrieved successfully")
}

// MarkContactMessageRead flags an inbox message as read.
func (h *AdminHandler) MarkContactMessageRead(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid message ID")
	}

	if err := h.adminUC.MarkContactMessageRead(c.Request().Context(), p, id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Message marked as read")
}

// ApproveCategory flips a category's approval flag.
func (h *AdminHandler) ApproveCategory(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid category ID")
	}

	var req ApproveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid approval input")
	}

	if err := h.adminUC.ApproveCategory(c.Request().Context(), p, id, req.Approved); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Category approval updated")
}
