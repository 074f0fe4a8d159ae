package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/middleware"
	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/repositories"
	"github.com/roadrover06/MAD-MACEDAI/utils"
)

// AuthController handles cashier account endpoints
type AuthController struct {
	users *repositories.UserRepository
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Database) *AuthController {
	return &AuthController{users: repositories.NewUserRepository(db)}
}

// Signup registers a cashier account.
func (c *AuthController) Signup(ctx echo.Context) error {
	var request models.SignupRequest
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

	role := request.Role
	if role == "" {
		role = "cashier"
	}
	if role != "cashier" && role != "admin" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := &models.User{
		Username:  strings.ToLower(strings.TrimSpace(request.Username)),
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(request.FirstName),
		LastName:  strings.TrimSpace(request.LastName),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := c.users.Insert(context.Background(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ctx.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Username already taken",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	user.ID = id
	user.Password = ""
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created",
		Data:    user,
	})
}

// Login authenticates a cashier and issues a session token.
func (c *AuthController) Login(ctx echo.Context) error {
	var request models.LoginRequest
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

	user, err := c.users.FindByUsername(context.Background(), strings.ToLower(strings.TrimSpace(request.Username)))
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid username or password",
		})
	}
	if err := utils.CheckPassword(user.Password, request.Password); err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid username or password",
		})
	}
	if !user.IsActive {
		return ctx.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is inactive",
		})
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginData{
			Token: token,
			User:  *user,
		},
	})
}

// Logout revokes the current session token.
func (c *AuthController) Logout(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	token := middleware.ExtractToken(ctx)
	expiry := time.Unix(claims.ExpiresAt, 0)
	if claims.ExpiresAt == 0 {
		expiry = time.Now().Add(utils.TokenDuration)
	}
	middleware.BlacklistToken(token, expiry)

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// GetProfile returns the authenticated cashier's account.
func (c *AuthController) GetProfile(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	user, err := c.users.FindByUsername(context.Background(), claims.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving user",
		})
	}

	user.Password = ""
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved",
		Data:    user,
	})
}
