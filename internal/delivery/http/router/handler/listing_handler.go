package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tradegate/internal/delivery/http/middleware"
	"tradegate/internal/delivery/http/response"
	"tradegate/internal/domain/entity"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ListingHandlerParams holds dependencies for ListingHandler, injected by Fx.
type ListingHandlerParams struct {
	fx.In

	ListingUC usecase.ListingUsecase
	Logger    *slog.Logger
}

// ListingHandler holds dependencies for the listing write-side handlers.
type ListingHandler struct {
	listingUC usecase.ListingUsecase
	logger    *slog.Logger
}

// NewListingHandler is the constructor for ListingHandler.
func NewListingHandler(params ListingHandlerParams) *ListingHandler {
	return &ListingHandler{
		listingUC: params.ListingUC,
		logger:    params.Logger,
	}
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"required"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	Currency      string   `json:"currency" validate:"required,len=3"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
	Unit          string   `json:"unit"`
	CountryOrigin string   `json:"country_origin" validate:"required"`
	ImageURL      string   `json:"image_url"`
	GalleryURLs   []string `json:"gallery_urls"`
}

// UpdateProductRequest represents the request body for editing a product.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"omitempty,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url"`
}

// CreateRequestRequest represents the request body for creating a sourcing request.
type CreateRequestRequest struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	Category      string     `json:"category" validate:"required"`
	Quantity      int        `json:"quantity" validate:"gte=0"`
	Unit          string     `json:"unit"`
	BudgetMin     float64    `json:"budget_min" validate:"gte=0"`
	BudgetMax     float64    `json:"budget_max" validate:"gte=0"`
	Currency      string     `json:"currency" validate:"omitempty,len=3"`
	TargetCountry string     `json:"target_country" validate:"required"`
	Urgency       string     `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// UpdateRequestRequest represents the request body for editing a sourcing request.
type UpdateRequestRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity" validate:"gte=0"`
	Unit        string     `json:"unit"`
	BudgetMin   float64    `json:"budget_min" validate:"gte=0"`
	BudgetMax   float64    `json:"budget_max" validate:"gte=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	Urgency     string     `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// TransitionRequest represents the request body for a lifecycle transition.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=done deleted"`
}

// CreateProduct handles the product creation request.
func (h *ListingHandler) CreateProduct(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	product, err := h.listingUC.CreateProduct(c.Request().Context(), p, &usecase.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		Currency:      req.Currency,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		CountryOrigin: req.CountryOrigin,
		ImageURL:      req.ImageURL,
		GalleryURLs:   req.GalleryURLs,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct handles the product edit request.
func (h *ListingHandler) UpdateProduct(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	product, err := h.listingUC.UpdateProduct(c.Request().Context(), p, id, &usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    req.Currency,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// TransitionProduct handles the product lifecycle transition request.
func (h *ListingHandler) TransitionProduct(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transition input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.listingUC.TransitionProduct(c.Request().Context(), p, id, entity.ListingStatus(req.Status)); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Product status updated")
}

// MyProducts lists the authenticated account's own products.
func (h *ListingHandler) MyProducts(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	products, err := h.listingUC.MyProducts(c.Request().Context(), p, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// CreateRequest handles the sourcing request creation request.
func (h *ListingHandler) CreateRequest(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	request, err := h.listingUC.CreateRequest(c.Request().Context(), p, &usecase.CreateRequestInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		BudgetMin:     req.BudgetMin,
		BudgetMax:     req.BudgetMax,
		Currency:      req.Currency,
		TargetCountry: req.TargetCountry,
		Urgency:       entity.Urgency(req.Urgency),
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, request, "Request created successfully")
}

// UpdateRequest handles the sourcing request edit request.
func (h *ListingHandler) UpdateRequest(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid request ID")
	}

	var req UpdateRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	request, err := h.listingUC.UpdateRequest(c.Request().Context(), p, id, &usecase.UpdateRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Currency:    req.Currency,
		Urgency:     entity.Urgency(req.Urgency),
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, request, "Request updated successfully")
}

// TransitionRequest handles the sourcing request lifecycle transition.
func (h *ListingHandler) TransitionRequest(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid request ID")
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transition input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.listingUC.TransitionRequest(c.Request().Context(), p, id, entity.ListingStatus(req.Status)); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Request status updated")
}

// MyRequests lists the authenticated account's own sourcing requests.
func (h *ListingHandler) MyRequests(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	requests, err := h.listingUC.MyRequests(c.Request().Context(), p, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, requests, "Requests retrieved successfully")
}
