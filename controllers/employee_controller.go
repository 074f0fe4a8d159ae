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

// EmployeeController handles the staff directory endpoints
type EmployeeController struct {
	employees *repositories.EmployeeRepository
}

// NewEmployeeController creates a new employee controller
func NewEmployeeController(db *mongo.Database) *EmployeeController {
	return &EmployeeController{employees: repositories.NewEmployeeRepository(db)}
}

// GetEmployees returns the staff directory snapshot.
func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	employees, err := c.employees.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving employees",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Employees retrieved",
		Data:    employees,
	})
}

// CreateEmployee adds a staff member.
func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var request models.EmployeeRequest
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

	employee := &models.Employee{
		FirstName: strings.TrimSpace(request.FirstName),
		LastName:  strings.TrimSpace(request.LastName),
		CreatedAt: time.Now(),
	}

	id, err := c.employees.Insert(context.Background(), employee)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create employee",
		})
	}

	employee.ID = id
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Employee created",
		Data:    employee,
	})
}
