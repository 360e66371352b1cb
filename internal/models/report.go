package models

import (
	"fmt"
	"strings"
)

type ReportMode string

const (
	ReportModeOverlap   ReportMode = "overlap"
	ReportModeCounts    ReportMode = "counts"
	ReportModeInventory ReportMode = "inventory"
	ReportModeComfort   ReportMode = "comfort"
)

// DefaultComfortLimit is the number of stations listed by a comfort report
// when the request sets none.
const DefaultComfortLimit = 10

// ParseReportMode maps a user supplied mode onto a ReportMode. An empty
// value selects the overlap report.
func ParseReportMode(value string) (ReportMode, error) {
	switch ReportMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ReportModeOverlap:
		return ReportModeOverlap, nil
	case ReportModeCounts:
		return ReportModeCounts, nil
	case ReportModeInventory:
		return ReportModeInventory, nil
	case ReportModeComfort:
		return ReportModeComfort, nil
	default:
		return "", InvalidModeError{Mode: value}
	}
}

type InvalidModeError struct {
	Mode string
}

func (e InvalidModeError) Error() string {
	return fmt.Sprintf("invalid report mode: %q", e.Mode)
}

// ReportRequest names the two station files a report is built from.
// PrecipitationLocation and Limit are only read by comfort reports.
type ReportRequest struct {
	ZipcodesLocation    string `json:"zipcodesLocation"`
	TemperatureLocation string `json:"temperatureLocation"`
	Prefix              string `json:"prefix"`
	// PrecipitationLocation is a directory of per-station monthly CSV files
	PrecipitationLocation string `json:"precipitationLocation,omitempty"`
	Limit                 int    `json:"limit,omitempty"`
}

// ComfortLimit returns Limit, or DefaultComfortLimit when it is not positive.
func (r ReportRequest) ComfortLimit() int {
	if r.Limit <= 0 {
		return DefaultComfortLimit
	}
	return r.Limit
}

func (r ReportRequest) Validate() error {
	if r.ZipcodesLocation == "" {
		return fmt.Errorf("zipcodes location is required")
	}
	if r.TemperatureLocation == "" {
		return fmt.Errorf("temperature location is required")
	}
	return nil
}

// OverlapReport holds the distinct station counts of both files and the
// size of their intersection.
type OverlapReport struct {
	Prefix              string `json:"prefix" dynamodbav:"prefix"`
	ZipcodeStations     int    `json:"zipcodeStations" dynamodbav:"zipcodeStations"`
	TemperatureStations int    `json:"temperatureStations" dynamodbav:"temperatureStations"`
	CommonStations      int    `json:"commonStations" dynamodbav:"commonStations"`
	GeneratedAt         int64  `json:"generatedAt" dynamodbav:"generatedAt"`
}

// LineCountReport holds the raw number of prefixed lines in both files.
type LineCountReport struct {
	Prefix           string `json:"prefix" dynamodbav:"prefix"`
	ZipcodeLines     int    `json:"zipcodeLines" dynamodbav:"zipcodeLines"`
	TemperatureLines int    `json:"temperatureLines" dynamodbav:"temperatureLines"`
	GeneratedAt      int64  `json:"generatedAt" dynamodbav:"generatedAt"`
}

// InventoryReport summarizes the stations of both files merged by code.
type InventoryReport struct {
	Prefix              string `json:"prefix" dynamodbav:"prefix"`
	TotalStations       int    `json:"totalStations" dynamodbav:"totalStations"`
	ZipcodeStations     int    `json:"zipcodeStations" dynamodbav:"zipcodeStations"`
	TemperatureStations int    `json:"temperatureStations" dynamodbav:"temperatureStations"`
	CommonStations      int    `json:"commonStations" dynamodbav:"commonStations"`
	GeneratedAt         int64  `json:"generatedAt" dynamodbav:"generatedAt"`
}

type StationScore struct {
	ID                 StationCode `json:"id" dynamodbav:"id"`
	Zipcode            string      `json:"zipcode,omitempty" dynamodbav:"zipcode,omitempty"`
	TemperatureScore   float64     `json:"temperatureScore" dynamodbav:"temperatureScore"`
	PrecipitationScore float64     `json:"precipitationScore" dynamodbav:"precipitationScore"`
	TotalScore         float64     `json:"totalScore" dynamodbav:"totalScore"`
}

// ComfortReport lists the best scoring stations, highest total first.
type ComfortReport struct {
	Prefix         string         `json:"prefix" dynamodbav:"prefix"`
	ScoredStations int            `json:"scoredStations" dynamodbav:"scoredStations"`
	Stations       []StationScore `json:"stations" dynamodbav:"stations"`
	GeneratedAt    int64          `json:"generatedAt" dynamodbav:"generatedAt"`
}
