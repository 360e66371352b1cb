package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/normals/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type ReportResponse struct {
	APIResponse
	Mode       models.ReportMode       `json:"mode"`
	Overlap    *models.OverlapReport   `json:"overlap,omitempty"`
	LineCounts *models.LineCountReport `json:"lineCounts,omitempty"`
	Inventory  *models.InventoryReport `json:"inventory,omitempty"`
	Comfort    *models.ComfortReport   `json:"comfort,omitempty"`
	Cached     bool                    `json:"cached"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

// NewReportResponse wraps any of the report types built by the analyzer.
func NewReportResponse(report any, cached bool) (*ReportResponse, error) {
	resp := &ReportResponse{
		APIResponse: APIResponse{ResponseType: "report"},
		Cached:      cached,
	}

	switch r := report.(type) {
	case *models.OverlapReport:
		resp.Mode = models.ReportModeOverlap
		resp.Overlap = r
	case *models.LineCountReport:
		resp.Mode = models.ReportModeCounts
		resp.LineCounts = r
	case *models.InventoryReport:
		resp.Mode = models.ReportModeInventory
		resp.Inventory = r
	case *models.ComfortReport:
		resp.Mode = models.ReportModeComfort
		resp.Comfort = r
	default:
		return nil, fmt.Errorf("unsupported report type %T", report)
	}

	return resp, nil
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// Parameter parsing helpers

// ParseReportParams reads the report mode and station prefix from the query
// string. A missing prefix falls back to defaultPrefix.
func ParseReportParams(params map[string]string, defaultPrefix string) (models.ReportMode, string, error) {
	mode, err := models.ParseReportMode(params["mode"])
	if err != nil {
		return "", "", err
	}

	prefix, ok := params["prefix"]
	if !ok {
		return mode, defaultPrefix, nil
	}
	if !validPrefix(prefix) {
		return "", "", InvalidPrefixError{Prefix: prefix}
	}
	return mode, prefix, nil
}

const maxComfortLimit = 100

// ParseLimit reads the number of stations a comfort report lists. A missing
// limit falls back to defaultLimit.
func ParseLimit(params map[string]string, defaultLimit int) (int, error) {
	value, ok := params["limit"]
	if !ok {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 1 || limit > maxComfortLimit {
		return 0, InvalidLimitError{Limit: value}
	}
	return limit, nil
}

const maxPrefixLength = 11

func validPrefix(prefix string) bool {
	if len(prefix) > maxPrefixLength {
		return false
	}
	for _, r := range prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

type InvalidPrefixError struct {
	Prefix string
}

func (e InvalidPrefixError) Error() string {
	return fmt.Sprintf("Invalid prefix: %q", e.Prefix)
}

type InvalidLimitError struct {
	Limit string
}

func (e InvalidLimitError) Error() string {
	return fmt.Sprintf("Invalid limit: %q, must be between 1 and %d", e.Limit, maxComfortLimit)
}
