package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStorage(t *testing.T) {
	tests := []struct {
		gb        float64
		wantValue string
		wantUnit  string
	}{
		{0, "0.00", "GB"},
		{512.5, "512.50", "GB"},
		{999.25, "999.25", "GB"},
		{1000, "1.00", "TB"},
		{1500, "1.50", "TB"},
		{250_000, "250.00", "TB"},
		{2_500_000, "2.50", "PB"},
	}

	for _, tt := range tests {
		value, unit := FormatStorage(tt.gb)
		assert.Equal(t, tt.wantValue, value, "gb=%v", tt.gb)
		assert.Equal(t, tt.wantUnit, unit, "gb=%v", tt.gb)
	}
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 1.5, BytesToGB(1_500_000_000))
	assert.Equal(t, 12.34, CentsToDollars(1234))
	assert.Equal(t, "12.34", formatDollars(1234))
	assert.Equal(t, "0.05", formatDollars(5))
}

func TestShare(t *testing.T) {
	assert.Equal(t, 440, share(50, 100, 880))
	assert.Equal(t, 0, share(50, 0, 880))
	assert.Equal(t, 0, share(50, -1, 880))
	assert.Equal(t, 713, share(1, 1, 713))
}
