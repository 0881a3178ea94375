package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowRange(t *testing.T) {
	tests := []struct {
		name     string
		rowIndex int
		startCol string
		endCol   string
		want     string
	}{
		{"amount and currency", 3, ColAmount, ColCurrency, "Sheet1!C3:D3"},
		{"full row", 7, ColDate, ColCategory, "Sheet1!A7:F7"},
		{"first data row", 2, ColDate, ColCategory, "Sheet1!A2:F2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowRange(tt.rowIndex, tt.startCol, tt.endCol))
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell interface{}
		want string
	}{
		{"string passes through", "coffee", "coffee"},
		{"whole number drops decimals", float64(5), "5"},
		{"fractional number keeps them", 2.5, "2.5"},
		{"bool stringified", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.cell))
		})
	}
}

func TestStoreError(t *testing.T) {
	inner := assert.AnError
	err := &StoreError{Op: "append", Err: inner}

	assert.Contains(t, err.Error(), "append")
	assert.ErrorIs(t, err, inner)
}
