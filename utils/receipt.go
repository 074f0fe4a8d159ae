package utils

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

// ReceiptPayload builds the text encoded into a receipt QR code:
// enough to verify a transaction at the counter without a lookup.
func ReceiptPayload(record *models.PaymentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt: %s\n", record.ReceiptNo)
	fmt.Fprintf(&b, "Customer: %s\n", record.CustomerName)
	fmt.Fprintf(&b, "Car: %s (%s)\n", record.CarName, record.PlateNumber)
	fmt.Fprintf(&b, "Services: %s\n", record.ServiceName)
	fmt.Fprintf(&b, "Total: %s\n", FormatPeso(record.Price))
	if record.Paid {
		fmt.Fprintf(&b, "Method: %s\n", record.PaymentMethod)
		if record.AmountTendered != nil {
			fmt.Fprintf(&b, "Tendered: %s\n", FormatPeso(*record.AmountTendered))
		}
		if record.Change != nil {
			fmt.Fprintf(&b, "Change: %s\n", FormatPeso(*record.Change))
		}
	} else {
		b.WriteString("Status: UNPAID\n")
	}
	fmt.Fprintf(&b, "Date: %s", record.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

// GenerateReceiptQR renders the receipt payload as a PNG QR code.
func GenerateReceiptQR(record *models.PaymentRecord, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	code, err := qr.Encode(ReceiptPayload(record), qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
