package utils

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

func sampleRecord() *models.PaymentRecord {
	tendered := 1000.0
	change := 50.0
	return &models.PaymentRecord{
		ReceiptNo:      "3f2c9b7e-1a4d-4e8f-9c1b-7d6a5e4f3c2b",
		CustomerName:   "Juan Dela Cruz",
		CarName:        "Vios",
		PlateNumber:    "ABC-1234",
		ServiceName:    "Basic Wash, Wax",
		Price:          950,
		Paid:           true,
		PaymentMethod:  models.PaymentMethodCash,
		AmountTendered: &tendered,
		Change:         &change,
		CreatedAt:      time.Date(2026, 8, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestReceiptPayload(t *testing.T) {
	payload := ReceiptPayload(sampleRecord())
	assert.Contains(t, payload, "Receipt: 3f2c9b7e")
	assert.Contains(t, payload, "Customer: Juan Dela Cruz")
	assert.Contains(t, payload, "Car: Vios (ABC-1234)")
	assert.Contains(t, payload, "Total: ₱950")
	assert.Contains(t, payload, "Method: cash")
	assert.Contains(t, payload, "Change: ₱50")
	assert.NotContains(t, payload, "UNPAID")
}

func TestReceiptPayloadUnpaid(t *testing.T) {
	record := sampleRecord()
	record.Paid = false
	record.PaymentMethod = ""
	record.AmountTendered = nil
	record.Change = nil

	payload := ReceiptPayload(record)
	assert.Contains(t, payload, "Status: UNPAID")
	assert.NotContains(t, payload, "Method:")
	assert.NotContains(t, payload, "Tendered:")
}

func TestGenerateReceiptQR(t *testing.T) {
	data, err := GenerateReceiptQR(sampleRecord(), 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestGenerateReceiptQRDefaultSize(t *testing.T) {
	data, err := GenerateReceiptQR(sampleRecord(), 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
