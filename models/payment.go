package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variety keys (vehicle size tiers) used as keys into Service.Prices.
const (
	VarietyMotor  = "motor"
	VarietySmall  = "small"
	VarietyMedium = "medium"
	VarietyLarge  = "large"
	VarietyXLarge = "xlarge"
)

// Payment method keys accepted at the counter.
const (
	PaymentMethodCash  = "cash"
	PaymentMethodGCash = "gcash"
	PaymentMethodCard  = "card"
	PaymentMethodMaya  = "maya"
)

// Varieties is the closed set of size tiers, in display order.
var Varieties = []string{VarietyMotor, VarietySmall, VarietyMedium, VarietyLarge, VarietyXLarge}

// PaymentMethods is the closed set of payment methods.
var PaymentMethods = []string{PaymentMethodCash, PaymentMethodGCash, PaymentMethodCard, PaymentMethodMaya}

// IsValidVariety reports whether key is one of the known size tiers.
func IsValidVariety(key string) bool {
	for _, v := range Varieties {
		if v == key {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod reports whether key is an accepted method.
func IsValidPaymentMethod(key string) bool {
	for _, m := range PaymentMethods {
		if m == key {
			return true
		}
	}
	return false
}

// EmployeeAssignment is an employee attached to a transaction. Name is
// snapshotted at assignment time and Commission is always derived from
// the stored percentage and the current total; it is never set
// independently.
type EmployeeAssignment struct {
	ID         primitive.ObjectID `json:"id" bson:"id"`
	Name       string             `json:"name" bson:"name"`
	Commission float64            `json:"commission" bson:"commission"`
}

// ReferrerAssignment has the same shape as an employee assignment. A
// transaction carries at most one referrer; when there is none the
// field is absent from the stored document, never null.
type ReferrerAssignment struct {
	ID         primitive.ObjectID `json:"id" bson:"id"`
	Name       string             `json:"name" bson:"name"`
	Commission float64            `json:"commission" bson:"commission"`
}

// ManualService is an ad-hoc line item not present in the catalog.
type ManualService struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

// PaymentRecord is the persisted transaction. Field presence matters:
// Employees is always stored as an array (possibly empty), while
// Referrer, ManualServices and the payment fields are omitted entirely
// when they do not apply. ServiceID/ServiceName are the legacy
// single-service fields kept so older documents keep rendering.
type PaymentRecord struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ReceiptNo       string               `json:"receiptNo,omitempty" bson:"receiptNo,omitempty"`
	CustomerName    string               `json:"customerName" bson:"customerName"`
	CarName         string               `json:"carName" bson:"carName"`
	PlateNumber     string               `json:"plateNumber" bson:"plateNumber"`
	Variety         string               `json:"variety" bson:"variety"`
	ServiceIDs      []primitive.ObjectID `json:"serviceIds" bson:"serviceIds"`
	ServiceNames    []string             `json:"serviceNames" bson:"serviceNames"`
	ServiceID       primitive.ObjectID   `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	ServiceName     string               `json:"serviceName,omitempty" bson:"serviceName,omitempty"`
	ManualServices  []ManualService      `json:"manualServices,omitempty" bson:"manualServices,omitempty"`
	Price           float64              `json:"price" bson:"price"`
	Cashier         string               `json:"cashier" bson:"cashier"`
	CashierFullName string               `json:"cashierFullName,omitempty" bson:"cashierFullName,omitempty"`
	Employees       []EmployeeAssignment `json:"employees" bson:"employees"`
	Referrer        *ReferrerAssignment  `json:"referrer,omitempty" bson:"referrer,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	Paid            bool                 `json:"paid" bson:"paid"`
	PaymentMethod   string               `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	AmountTendered  *float64             `json:"amountTendered,omitempty" bson:"amountTendered,omitempty"`
	Change          *float64             `json:"change,omitempty" bson:"change,omitempty"`
	Voided          bool                 `json:"voided,omitempty" bson:"voided,omitempty"`
}

// EmployeeShareRequest carries an employee selection with its
// commission percentage. Percent is clamped to [0,100] server-side.
type EmployeeShareRequest struct {
	ID      string  `json:"id" validate:"required"`
	Percent float64 `json:"percent"`
}

// PaymentRequest model for recording a new transaction.
type PaymentRequest struct {
	CustomerName    string                 `json:"customerName" validate:"required"`
	CarName         string                 `json:"carName" validate:"required"`
	PlateNumber     string                 `json:"plateNumber" validate:"required"`
	Variety         string                 `json:"variety" validate:"required"`
	ServiceIDs      []string               `json:"serviceIds"`
	ManualServices  []ManualService        `json:"manualServices"`
	Employees       []EmployeeShareRequest `json:"employees"`
	ReferrerID      string                 `json:"referrerId,omitempty"`
	ReferrerPercent float64                `json:"referrerPercent,omitempty"`
	PayLater        bool                   `json:"payLater"`
	PaymentMethod   string                 `json:"paymentMethod,omitempty"`
	AmountTendered  *float64               `json:"amountTendered,omitempty"`
}

// PayNowRequest model for completing an unpaid transaction.
type PayNowRequest struct {
	PaymentMethod  string   `json:"paymentMethod" validate:"required"`
	AmountTendered *float64 `json:"amountTendered" validate:"required"`
}

// ServiceTally is one entry of the most-availed ranking.
type ServiceTally struct {
	ServiceName string `json:"serviceName"`
	Count       int    `json:"count"`
}

// PaymentStats summarizes the records for the dashboard cards.
type PaymentStats struct {
	TotalTransactions int            `json:"totalTransactions"`
	TotalPaid         int            `json:"totalPaid"`
	TotalUnpaid       int            `json:"totalUnpaid"`
	TotalSales        float64        `json:"totalSales"`
	MostAvailed       []ServiceTally `json:"mostAvailed"`
}
