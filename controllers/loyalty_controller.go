package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/repositories"
)

// LoyaltyController handles the loyalty customer endpoints
type LoyaltyController struct {
	loyalty *repositories.LoyaltyRepository
}

// NewLoyaltyController creates a new loyalty controller
func NewLoyaltyController(db *mongo.Database) *LoyaltyController {
	return &LoyaltyController{loyalty: repositories.NewLoyaltyRepository(db)}
}

// GetLoyaltyCustomers returns the loyalty directory snapshot used to
// pre-fill customer and car details on the POS screen.
func (c *LoyaltyController) GetLoyaltyCustomers(ctx echo.Context) error {
	customers, err := c.loyalty.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving loyalty customers",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Loyalty customers retrieved",
		Data:    customers,
	})
}

// CreateLoyaltyCustomer registers a customer for points accrual.
func (c *LoyaltyController) CreateLoyaltyCustomer(ctx echo.Context) error {
	var request models.LoyaltyCustomerRequest
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

	for _, car := range request.Cars {
		if strings.TrimSpace(car.CarName) == "" || strings.TrimSpace(car.PlateNumber) == "" {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Each car needs a name and a plate number",
			})
		}
	}

	customer := &models.LoyaltyCustomer{
		Name:      strings.TrimSpace(request.Name),
		Cars:      request.Cars,
		Points:    0,
		CreatedAt: time.Now(),
	}

	id, err := c.loyalty.Insert(context.Background(), customer)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to register loyalty customer",
		})
	}

	customer.ID = id
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Loyalty customer registered",
		Data:    customer,
	})
}
