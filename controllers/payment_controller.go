package controllers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/middleware"
	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/repositories"
	"github.com/roadrover06/MAD-MACEDAI/services"
	"github.com/roadrover06/MAD-MACEDAI/utils"
	"github.com/roadrover06/MAD-MACEDAI/websocket"
)

// PaymentController handles the transaction endpoints of the POS
// screen. Every record it writes goes through the assembler; there is
// no other code path into the payments collection.
type PaymentController struct {
	payments  *repositories.PaymentRepository
	catalog   *repositories.CatalogRepository
	employees *repositories.EmployeeRepository
	runner    *services.PostPaymentRunner
	hub       *websocket.Hub
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *mongo.Database, cache *redis.Client, hub *websocket.Hub) *PaymentController {
	return &PaymentController{
		payments:  repositories.NewPaymentRepository(db),
		catalog:   repositories.NewCatalogRepository(db, cache),
		employees: repositories.NewEmployeeRepository(db),
		runner: services.NewPostPaymentRunner(
			repositories.NewChemicalRepository(db),
			repositories.NewLoyaltyRepository(db),
		),
		hub: hub,
	}
}

// clampPercent keeps commission percentages inside [0, 100]; the
// calculator itself does not range-check.
func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// CreatePayment records a new transaction, fully paid or as unpaid
// ("pay later"). On paid creation the post-payment side effects run
// after the record write succeeds.
func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.PaymentRequest
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

	serviceIDs := make([]primitive.ObjectID, 0, len(request.ServiceIDs))
	for _, raw := range request.ServiceIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid service ID: " + raw,
			})
		}
		serviceIDs = append(serviceIDs, id)
	}

	catalog, err := c.catalog.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error loading service catalog",
		})
	}
	staff, err := c.employees.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error loading employees",
		})
	}

	draft, err := c.buildDraft(&request, serviceIDs, staff)
	if err != nil {
		return respondValidation(ctx, err)
	}

	total := services.CalcTotalPrice(draft.ServiceIDs, draft.Variety, draft.ManualServices, catalog)
	reconciliation, err := services.Reconcile(total, request.AmountTendered, request.PaymentMethod, request.PayLater)
	if err != nil {
		return respondValidation(ctx, err)
	}

	cashier := services.Cashier{Username: claims.Username, FullName: claims.FullName}
	record, err := services.AssembleRecord(*draft, reconciliation, cashier, catalog, time.Now())
	if err != nil {
		return respondValidation(ctx, err)
	}
	record.ReceiptNo = uuid.New().String()

	id, err := c.payments.Insert(context.Background(), record)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record payment",
		})
	}
	record.ID = id

	message := "Payment recorded"
	if record.Paid {
		// Best-effort side effects only after the primary write.
		c.runner.Run(context.Background(), record, catalog)
		c.hub.NotifyPaymentRecorded(record)
	} else {
		message = "Service recorded as unpaid"
		c.hub.NotifyPaymentRecorded(record)
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    record,
	})
}

// buildDraft resolves the request's employee and referrer selections
// against the staff directory, snapshotting display names.
func (c *PaymentController) buildDraft(request *models.PaymentRequest, serviceIDs []primitive.ObjectID, staff []models.Employee) (*services.PaymentDraft, error) {
	findEmployee := func(id primitive.ObjectID) *models.Employee {
		for i := range staff {
			if staff[i].ID == id {
				return &staff[i]
			}
		}
		return nil
	}

	shares := make([]services.EmployeeShare, 0, len(request.Employees))
	for _, e := range request.Employees {
		id, err := primitive.ObjectIDFromHex(e.ID)
		if err != nil {
			return nil, &services.ValidationError{Field: "employees", Message: "invalid employee ID: " + e.ID}
		}
		emp := findEmployee(id)
		if emp == nil {
			return nil, &services.ValidationError{Field: "employees", Message: "unknown employee: " + e.ID}
		}
		shares = append(shares, services.EmployeeShare{
			ID:      id,
			Name:    emp.FullName(),
			Percent: clampPercent(e.Percent),
		})
	}

	var referrer *services.ReferrerShare
	if request.ReferrerID != "" {
		id, err := primitive.ObjectIDFromHex(request.ReferrerID)
		if err != nil {
			return nil, &services.ValidationError{Field: "referrerId", Message: "invalid referrer ID"}
		}
		emp := findEmployee(id)
		if emp == nil {
			return nil, &services.ValidationError{Field: "referrerId", Message: "unknown referrer"}
		}
		referrer = &services.ReferrerShare{
			ID:      id,
			Name:    emp.FullName(),
			Percent: clampPercent(request.ReferrerPercent),
		}
	}

	return &services.PaymentDraft{
		CustomerName:   request.CustomerName,
		CarName:        request.CarName,
		PlateNumber:    request.PlateNumber,
		Variety:        request.Variety,
		ServiceIDs:     serviceIDs,
		ManualServices: request.ManualServices,
		Employees:      shares,
		Referrer:       referrer,
	}, nil
}

// PayNow completes an existing unpaid transaction. Only the payment
// fields and the timestamp change; identity fields stay untouched.
func (c *PaymentController) PayNow(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment ID",
		})
	}

	record, err := c.payments.FindByID(context.Background(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment record not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding payment record",
		})
	}

	if record.Voided {
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Voided transactions cannot be modified",
		})
	}
	if record.Paid {
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Transaction is already paid",
		})
	}

	var request models.PayNowRequest
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

	reconciliation, err := services.Reconcile(record.Price, request.AmountTendered, request.PaymentMethod, false)
	if err != nil {
		return respondValidation(ctx, err)
	}

	now := time.Now()
	patch := services.MarkPaidPatch(reconciliation, now)
	if err := c.payments.UpdateByID(context.Background(), id, patch); err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete payment",
		})
	}

	record.Paid = true
	record.PaymentMethod = reconciliation.PaymentMethod
	record.AmountTendered = reconciliation.AmountTendered
	record.Change = reconciliation.Change
	record.CreatedAt = now

	catalog, err := c.catalog.FindAll(context.Background())
	if err != nil {
		// The payment itself is committed; stock usage cannot be
		// resolved without the catalog, so only loyalty-independent
		// effects are lost. Same best-effort policy as the runner.
		catalog = nil
	}
	c.runner.Run(context.Background(), record, catalog)
	c.hub.NotifyPaymentCompleted(record)

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment completed",
		Data:    record,
	})
}

// GetPayments returns the full transaction snapshot, newest first.
// Filtering (customer, plate, status, date range) happens on the
// screen.
func (c *PaymentController) GetPayments(ctx echo.Context) error {
	records, err := c.payments.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving payment records",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment records retrieved",
		Data:    records,
	})
}

// GetPayment returns one transaction by id.
func (c *PaymentController) GetPayment(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment ID",
		})
	}

	record, err := c.payments.FindByID(context.Background(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment record not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding payment record",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment record retrieved",
		Data:    record,
	})
}

// GetStats summarizes the records for the dashboard cards: totals and
// the top three most availed services.
func (c *PaymentController) GetStats(ctx echo.Context) error {
	records, err := c.payments.FindAll(context.Background())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving payment records",
		})
	}

	stats := models.PaymentStats{
		TotalTransactions: len(records),
		MostAvailed:       []models.ServiceTally{},
	}
	serviceCount := make(map[string]int)
	for _, r := range records {
		if r.Paid {
			stats.TotalPaid++
			stats.TotalSales += r.Price
		} else {
			stats.TotalUnpaid++
		}
		if r.ServiceName != "" {
			serviceCount[r.ServiceName]++
		}
	}

	for name, count := range serviceCount {
		stats.MostAvailed = append(stats.MostAvailed, models.ServiceTally{ServiceName: name, Count: count})
	}
	sort.Slice(stats.MostAvailed, func(i, j int) bool {
		if stats.MostAvailed[i].Count != stats.MostAvailed[j].Count {
			return stats.MostAvailed[i].Count > stats.MostAvailed[j].Count
		}
		return stats.MostAvailed[i].ServiceName < stats.MostAvailed[j].ServiceName
	})
	if len(stats.MostAvailed) > 3 {
		stats.MostAvailed = stats.MostAvailed[:3]
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment stats retrieved",
		Data:    stats,
	})
}

// GetReceipt renders a transaction's receipt as a PNG QR code.
func (c *PaymentController) GetReceipt(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment ID",
		})
	}

	record, err := c.payments.FindByID(context.Background(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment record not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding payment record",
		})
	}

	size := 256
	if sizeParam := ctx.QueryParam("size"); sizeParam != "" {
		if parsed, err := strconv.Atoi(sizeParam); err == nil && parsed > 0 && parsed <= 1024 {
			size = parsed
		}
	}

	qrPNG, err := utils.GenerateReceiptQR(record, size)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate receipt",
		})
	}

	return ctx.Blob(http.StatusOK, "image/png", qrPNG)
}

// respondValidation maps engine validation failures to 400 responses;
// anything else is an internal error.
func respondValidation(ctx echo.Context, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: ve.Message,
			Data:    map[string]string{"field": ve.Field},
		})
	}
	return ctx.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Unexpected error",
	})
}
