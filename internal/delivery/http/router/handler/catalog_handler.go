package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tradegate/internal/delivery/http/middleware"
	"tradegate/internal/delivery/http/response"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler holds dependencies for the public catalog handlers.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// SuggestCategoryRequest represents the request body for suggesting a category.
type SuggestCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ContactRequest represents the public contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" validate:"required"`
}

// browseInputFromQuery reads the shared catalog query parameters.
func browseInputFromQuery(c echo.Context) *usecase.BrowseInput {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	input := &usecase.BrowseInput{
		Category: c.QueryParam("category"),
		Country:  c.QueryParam("country"),
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	}

	// Status widening only takes effect for back-office principals.
	if statuses := c.QueryParam("statuses"); statuses != "" {
		input.Statuses = strings.Split(statuses, ",")
	}

	return input
}

// ListProducts handles the catalog product listing request.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	products, err := h.catalogUC.ListProducts(c.Request().Context(), p, browseInputFromQuery(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// GetProduct handles a single product detail request.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), p, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// GetProductQR renders a share QR code for a product as a PNG image.
func (h *CatalogHandler) GetProductQR(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	png, err := h.catalogUC.ProductShareQR(c.Request().Context(), p, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ListRequests handles the sourcing request listing request.
func (h *CatalogHandler) ListRequests(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	requests, err := h.catalogUC.ListRequests(c.Request().Context(), p, browseInputFromQuery(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, requests, "Requests retrieved successfully")
}

// GetRequest handles a single sourcing request detail request.
func (h *CatalogHandler) GetRequest(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid request ID")
	}

	request, err := h.catalogUC.GetRequest(c.Request().Context(), p, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, request, "Request retrieved successfully")
}

// ListCategories returns the catalog categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	approvedOnly := c.QueryParam("all") != "true"

	categories, err := h.catalogUC.ListCategories(c.Request().Context(), approvedOnly)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, categories, "Categories retrieved successfully")
}

// SuggestCategory creates a category on behalf of the authenticated user.
func (h *CatalogHandler) SuggestCategory(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req SuggestCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	category, err := h.catalogUC.SuggestCategory(c.Request().Context(), p, req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, category, "Category created successfully")
}

// SubmitContact accepts a public contact form submission.
func (h *CatalogHandler) SubmitContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	err := h.catalogUC.SubmitContactMessage(c.Request().Context(), &usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, nil, "Message received")
}
