package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{120, "$120"},
		{999.5, "$1,000"},
		{1250, "$1,250"},
		{1234567.4, "$1,234,567"},
		{-340, "-$340"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.amount))
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$220", Format("USD", 220))
	assert.Equal(t, "$220", Format("", 220))
	assert.Equal(t, "EUR 1,100", Format("EUR", 1100.2))
}

func TestAddThousandsSeparator(t *testing.T) {
	assert.Equal(t, "100", addThousandsSeparator("100", ","))
	assert.Equal(t, "1.000", addThousandsSeparator("1000", "."))
	assert.Equal(t, "100,000", addThousandsSeparator("100000", ","))
}
