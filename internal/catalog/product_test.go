package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Valid(t *testing.T) {
	entry := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	p, err := NewProduct(" B-100 ", " Widget ", 1250, 10, entry)

	require.NoError(t, err)
	assert.Equal(t, "B-100", p.BatchNumber)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, int64(1250), p.PriceCents)
	assert.Equal(t, 10, p.QuantityAvailable)
}

func TestNewProduct_Invalid(t *testing.T) {
	entry := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		build func() (*Product, error)
	}{
		{"missing batch", func() (*Product, error) { return NewProduct("", "Widget", 100, 1, entry) }},
		{"missing name", func() (*Product, error) { return NewProduct("B-1", "", 100, 1, entry) }},
		{"zero price", func() (*Product, error) { return NewProduct("B-1", "Widget", 0, 1, entry) }},
		{"negative price", func() (*Product, error) { return NewProduct("B-1", "Widget", -5, 1, entry) }},
		{"negative quantity", func() (*Product, error) { return NewProduct("B-1", "Widget", 100, -1, entry) }},
		{"zero entry date", func() (*Product, error) { return NewProduct("B-1", "Widget", 100, 1, time.Time{}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}
