package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/common"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		months []string
	}{
		{"specific month", "2024-02", []string{"2024-02"}},
		{"first quarter", "2024-Q1", []string{"2024-01", "2024-02", "2024-03"}},
		{"last quarter", "2023-Q4", []string{"2023-10", "2023-11", "2023-12"}},
		{"full year", "2024-YEAR", []string{
			"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06",
			"2024-07", "2024-08", "2024-09", "2024-10", "2024-11", "2024-12",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.months, p.Months())
			assert.Equal(t, tt.label, p.String())
		})
	}
}

func TestParsePeriodRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "2024", "2024-13", "2024-00", "2024-Q5", "2024-q1", "2024-year", "24-01", " 2024-01", "2024-01-15", "Q1-2024"} {
		t.Run(label, func(t *testing.T) {
			_, err := ParsePeriod(label)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidPeriodFormat)
			assert.False(t, ValidPeriod(label))
		})
	}
}

func TestHorizon(t *testing.T) {
	h := NewHorizon(2024)
	assert.Equal(t, 12, h.Len())
	assert.Equal(t, "2024-01", h.Months()[0])
	assert.Equal(t, "2024-12", h.Months()[11])
	assert.True(t, h.Contains("2024-06"))
	assert.False(t, h.Contains("2023-12"))

	shifted := HorizonFrom(2023, 7)
	assert.Equal(t, "2023-07", shifted.Months()[0])
	assert.Equal(t, "2024-06", shifted.Months()[11])

	months := h.Months()
	months[0] = "mutated"
	assert.Equal(t, "2024-01", h.Months()[0])
}
