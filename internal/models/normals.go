package models

import (
	"fmt"
)

const (
	MonthsPerYear = 12
	DaysPerMonth  = 31
)

// DailyTemperatures holds one daily maximum temperature normal per calendar
// day, in degrees Fahrenheit. Nil marks a day without data, such as
// February 30th.
type DailyTemperatures [MonthsPerYear][DaysPerMonth]*float64

// Station is everything the normals files say about one station, merged
// by station code.
type Station struct {
	ID              StationCode
	Zipcode         *string
	MaxTemperatures *DailyTemperatures
	// RainyDaysPerMonth is the average number of days per month with at
	// least half an inch of rain. Nil when unknown.
	RainyDaysPerMonth []float64
	Latitude          *float64
	Longitude         *float64
}

func (s *Station) HasZipcode() bool {
	return s != nil && s.Zipcode != nil
}

func (s *Station) HasTemperatures() bool {
	return s != nil && s.MaxTemperatures != nil
}

// SetRainyDaysPerMonth stores twelve monthly averages, each within 0 and 31
// days.
func (s *Station) SetRainyDaysPerMonth(days []float64) error {
	if len(days) != MonthsPerYear {
		return InvalidRainyDaysError{
			Reason: fmt.Sprintf("expected %d months, got %d", MonthsPerYear, len(days)),
		}
	}
	for month, d := range days {
		if d < 0 || d > DaysPerMonth {
			return InvalidRainyDaysError{
				Reason: fmt.Sprintf("month %d has %g days, must be between 0 and %d", month+1, d, DaysPerMonth),
			}
		}
	}
	s.RainyDaysPerMonth = append([]float64(nil), days...)
	return nil
}

type InvalidRainyDaysError struct {
	Reason string
}

func (e InvalidRainyDaysError) Error() string {
	return "invalid rainy days per month: " + e.Reason
}
