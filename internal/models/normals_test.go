package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStation_SetRainyDaysPerMonth(t *testing.T) {
	tests := []struct {
		name    string
		days    []float64
		wantErr string
	}{
		{
			name: "boundary values",
			days: []float64{0, 31, 15, 20, 10, 5, 8, 12, 18, 22, 25, 30},
		},
		{
			name:    "too few months",
			days:    []float64{1, 2, 3},
			wantErr: "invalid rainy days per month: expected 12 months, got 3",
		},
		{
			name:    "negative",
			days:    []float64{1, 2, -1, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			wantErr: "invalid rainy days per month: month 3 has -1 days, must be between 0 and 31",
		},
		{
			name:    "more days than a month has",
			days:    []float64{1, 2, 32, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			wantErr: "invalid rainy days per month: month 3 has 32 days, must be between 0 and 31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Station{ID: "USC00042294"}
			err := s.SetRainyDaysPerMonth(tt.days)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				var daysErr InvalidRainyDaysError
				assert.True(t, errors.As(err, &daysErr))
				assert.Nil(t, s.RainyDaysPerMonth)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.days, s.RainyDaysPerMonth)

			// stored values are a copy
			tt.days[0] = 7
			assert.Equal(t, 0.0, s.RainyDaysPerMonth[0])
		})
	}
}

func TestStation_HasData(t *testing.T) {
	zip := "10001"
	s := &Station{ID: "USW00094728"}
	assert.False(t, s.HasZipcode())
	assert.False(t, s.HasTemperatures())

	s.Zipcode = &zip
	s.MaxTemperatures = &DailyTemperatures{}
	assert.True(t, s.HasZipcode())
	assert.True(t, s.HasTemperatures())

	var nilStation *Station
	assert.False(t, nilStation.HasZipcode())
}
