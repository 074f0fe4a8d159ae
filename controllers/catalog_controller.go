package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/repositories"
)

// CatalogController handles the service catalog endpoints
type CatalogController struct {
	catalog *repositories.CatalogRepository
}

// NewCatalogController creates a new catalog controller
func NewCatalogController(db *mongo.Database, cache *redis.Client) *CatalogController {
	return &CatalogController{catalog: repositories.NewCatalogRepository(db, cache)}
}

// validatePrices rejects unknown variety keys and negative prices.
// Varieties missing from the map stay missing; that means "not
// offered", not zero.
func validatePrices(prices map[string]float64) (string, bool) {
	if len(prices) == 0 {
		return "at least one variety price is required", false
	}
	for variety, price := range prices {
		if !models.IsValidVariety(variety) {
			return "unknown variety: " + variety, false
		}
		if price < 0 {
			return "price for " + variety + " cannot be negative", false
		}
	}
	return "", true
}

// GetServices returns the catalog snapshot.
func (c *CatalogController) GetServices(ctx echo.Context) error {
	services, err := c.catalog.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving services",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services retrieved",
		Data:    services,
	})
}

// CreateService adds a catalog entry.
func (c *CatalogController) CreateService(ctx echo.Context) error {
	var request models.ServiceRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := ctx.Validate(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	if msg, ok := validatePrices(request.Prices); !ok {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	now := time.Now()
	service := &models.Service{
		Name:        request.Name,
		Description: request.Description,
		Prices:      request.Prices,
		Chemicals:   request.Chemicals,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := c.catalog.Insert(context.Background(), service)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service",
		})
	}

	service.ID = id
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created",
		Data:    service,
	})
}

// UpdateService replaces a catalog entry's editable fields.
func (c *CatalogController) UpdateService(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	var request models.ServiceRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := ctx.Validate(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	if msg, ok := validatePrices(request.Prices); !ok {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	patch := bson.M{
		"name":        request.Name,
		"description": request.Description,
		"prices":      request.Prices,
		"chemicals":   request.Chemicals,
		"updatedAt":   time.Now(),
	}
	if err := c.catalog.UpdateByID(context.Background(), id, patch); err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update service",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service updated",
	})
}

// DeleteService removes a catalog entry. Existing transactions keep
// their snapshotted service names.
func (c *CatalogController) DeleteService(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	if err := c.catalog.DeleteByID(context.Background(), id); err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete service",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service deleted",
	})
}
