package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/utils"
)

// ValidationError blocks a confirmation before anything is written.
// Field names the offending input so the screen can point at it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Cashier identifies who is recording the transaction. Supplied by the
// JWT middleware, read-only input to record assembly.
type Cashier struct {
	Username string
	FullName string
}

// EmployeeShare is an employee selection on the in-progress draft,
// carrying the commission percentage entered by the cashier. Name is
// snapshotted from the staff directory at selection time.
type EmployeeShare struct {
	ID      primitive.ObjectID
	Name    string
	Percent float64
}

// ReferrerShare mirrors EmployeeShare for the optional referrer.
type ReferrerShare struct {
	ID      primitive.ObjectID
	Name    string
	Percent float64
}

// PaymentDraft is the cashier's in-progress transaction. It is a plain
// value passed through the calculation functions below; nothing here
// touches storage.
type PaymentDraft struct {
	CustomerName   string
	CarName        string
	PlateNumber    string
	Variety        string
	ServiceIDs     []primitive.ObjectID
	ManualServices []models.ManualService
	Employees      []EmployeeShare
	Referrer       *ReferrerShare
}

// CalcTotalPrice sums the catalog price of each selected service at the
// chosen variety plus all manual line items. A selected service with no
// price entry for the variety contributes 0 rather than erroring; that
// matches the behavior the cashiers rely on (the screen hides unpriced
// services from the picker, but old records may still reference them).
func CalcTotalPrice(serviceIDs []primitive.ObjectID, variety string, manual []models.ManualService, catalog []models.Service) float64 {
	var total float64
	for _, id := range serviceIDs {
		for i := range catalog {
			if catalog[i].ID == id {
				total += catalog[i].Prices[variety]
				break
			}
		}
	}
	for _, m := range manual {
		total += m.Price
	}
	return total
}

// ApplyPercent converts a commission percentage into a currency amount,
// rounded to the nearest whole peso, ties away from zero. Range
// checking of percent is the caller's job.
func ApplyPercent(percent, total float64) float64 {
	return math.Round(percent / 100 * total)
}

// RecomputeCommissions derives the persisted assignments from the draft
// shares and the current total. It must be called again whenever the
// total changes so that stored percentages stay the source of truth and
// no stale commission amount survives a price change.
func RecomputeCommissions(shares []EmployeeShare, referrer *ReferrerShare, total float64) ([]models.EmployeeAssignment, *models.ReferrerAssignment) {
	employees := make([]models.EmployeeAssignment, 0, len(shares))
	for _, s := range shares {
		if s.ID.IsZero() {
			continue
		}
		employees = append(employees, models.EmployeeAssignment{
			ID:         s.ID,
			Name:       s.Name,
			Commission: ApplyPercent(s.Percent, total),
		})
	}

	var ref *models.ReferrerAssignment
	if referrer != nil && !referrer.ID.IsZero() {
		ref = &models.ReferrerAssignment{
			ID:         referrer.ID,
			Name:       referrer.Name,
			Commission: ApplyPercent(referrer.Percent, total),
		}
	}
	return employees, ref
}

// Reconciliation is the outcome of checking tendered cash against the
// total. An unpaid result carries no method, tendered amount or change
// at all; a paid result always carries all three.
type Reconciliation struct {
	Paid           bool
	PaymentMethod  string
	AmountTendered *float64
	Change         *float64
}

// Reconcile validates payment inputs against the total price. With
// payLater the transaction is recorded unpaid and every payment field
// stays absent. Otherwise tendered must be present and cover the total;
// an underpayment is rejected, never clamped.
func Reconcile(total float64, tendered *float64, method string, payLater bool) (Reconciliation, error) {
	if payLater {
		return Reconciliation{Paid: false}, nil
	}
	if !models.IsValidPaymentMethod(method) {
		return Reconciliation{}, &ValidationError{Field: "paymentMethod", Message: "unknown payment method"}
	}
	if tendered == nil {
		return Reconciliation{}, &ValidationError{Field: "amountTendered", Message: "amount tendered is required"}
	}
	if *tendered < total {
		return Reconciliation{}, &ValidationError{Field: "amountTendered", Message: "amount tendered is less than the total price"}
	}
	amount := *tendered
	change := amount - total
	return Reconciliation{
		Paid:           true,
		PaymentMethod:  method,
		AmountTendered: &amount,
		Change:         &change,
	}, nil
}

// AssembleRecord builds the persistence-ready transaction from a draft
// and a reconciliation. Every record written to the payments collection
// goes through here; it enforces the field-presence rules the storage
// layer depends on (employees always an array, referrer and manual
// services fully present or fully absent, paid and unpaid field sets
// never mixed) and stamps the confirmation time.
func AssembleRecord(draft PaymentDraft, rec Reconciliation, cashier Cashier, catalog []models.Service, now time.Time) (*models.PaymentRecord, error) {
	customerName := strings.TrimSpace(draft.CustomerName)
	carName := strings.TrimSpace(draft.CarName)
	plateNumber := strings.TrimSpace(draft.PlateNumber)

	if customerName == "" {
		return nil, &ValidationError{Field: "customerName", Message: "customer name is required"}
	}
	if carName == "" {
		return nil, &ValidationError{Field: "carName", Message: "car name is required"}
	}
	if plateNumber == "" {
		return nil, &ValidationError{Field: "plateNumber", Message: "plate number is required"}
	}
	if !models.IsValidVariety(draft.Variety) {
		return nil, &ValidationError{Field: "variety", Message: "unknown variety"}
	}
	if len(draft.ServiceIDs) == 0 && len(draft.ManualServices) == 0 {
		return nil, &ValidationError{Field: "serviceIds", Message: "select at least one service or add a manual service"}
	}
	for _, m := range draft.ManualServices {
		if strings.TrimSpace(m.Name) == "" {
			return nil, &ValidationError{Field: "manualServices", Message: "manual service name is required"}
		}
		if m.Price < 0 {
			return nil, &ValidationError{Field: "manualServices", Message: "manual service price cannot be negative"}
		}
	}

	total := CalcTotalPrice(draft.ServiceIDs, draft.Variety, draft.ManualServices, catalog)
	employees, referrer := RecomputeCommissions(draft.Employees, draft.Referrer, total)

	// Like employees, serviceIds is always stored as an array, even
	// when the transaction is manual items only.
	serviceIDs := draft.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []primitive.ObjectID{}
	}

	// Display names: catalog services in selection order, then manual
	// items rendered with their price, same as the records table.
	serviceNames := make([]string, 0, len(draft.ServiceIDs)+len(draft.ManualServices))
	for _, id := range draft.ServiceIDs {
		for i := range catalog {
			if catalog[i].ID == id {
				serviceNames = append(serviceNames, catalog[i].Name)
				break
			}
		}
	}
	for _, m := range draft.ManualServices {
		serviceNames = append(serviceNames, fmt.Sprintf("%s (%s)", m.Name, utils.FormatPeso(m.Price)))
	}

	record := &models.PaymentRecord{
		CustomerName: customerName,
		CarName:      carName,
		PlateNumber:  plateNumber,
		Variety:      draft.Variety,
		ServiceIDs:   serviceIDs,
		ServiceNames: serviceNames,
		ServiceName:  strings.Join(serviceNames, ", "),
		Price:        total,
		Cashier:      cashier.Username,
		// Employees stays a non-nil slice even when empty; the store
		// rejects an absent field where an array is expected.
		Employees: employees,
		Referrer:  referrer,
		CreatedAt: now,
		Paid:      rec.Paid,
	}
	if cashier.FullName != "" {
		record.CashierFullName = cashier.FullName
	}
	if len(draft.ServiceIDs) > 0 {
		record.ServiceID = draft.ServiceIDs[0]
	}
	if len(draft.ManualServices) > 0 {
		record.ManualServices = draft.ManualServices
	}
	if rec.Paid {
		record.PaymentMethod = rec.PaymentMethod
		record.AmountTendered = rec.AmountTendered
		record.Change = rec.Change
	}
	return record, nil
}

// MarkPaidPatch produces the update completing an unpaid record. Only
// the payment fields and the timestamp change; the identity fields
// (customer, car, services, price, employees) are never touched.
func MarkPaidPatch(rec Reconciliation, now time.Time) bson.M {
	return bson.M{
		"paid":           true,
		"paymentMethod":  rec.PaymentMethod,
		"amountTendered": rec.AmountTendered,
		"change":         rec.Change,
		"createdAt":      now,
	}
}
