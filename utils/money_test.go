package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "₱0", FormatPeso(0))
	assert.Equal(t, "₱500", FormatPeso(500))
	assert.Equal(t, "₱1,000", FormatPeso(1000))
	assert.Equal(t, "₱12,500", FormatPeso(12500))
	assert.Equal(t, "₱1,234,567", FormatPeso(1234567))
	assert.Equal(t, "₱950.5", FormatPeso(950.5))
	assert.Equal(t, "-₱250", FormatPeso(-250))
}
