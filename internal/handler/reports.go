package handler

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/normals/backend-go/internal/api"
	"github.com/bbernstein/normals/backend-go/internal/cache"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/bbernstein/normals/backend-go/internal/source"
	"github.com/rs/zerolog/log"
)

// ReportCache is the subset of cache.ReportStore the handler needs.
type ReportCache interface {
	GetReport(ctx context.Context, mode models.ReportMode, req models.ReportRequest) (*cache.ReportRecord, error)
	SaveReport(ctx context.Context, req models.ReportRequest, report any) error
}

type ReportsHandler struct {
	runner  models.ReportRunner
	reports ReportCache
	base    models.ReportRequest
}

// NewReportsHandler builds a handler whose requests start from base: its
// locations are fixed, its prefix and limit are the query defaults.
// reports may be nil, in which case every request is computed.
func NewReportsHandler(runner models.ReportRunner, reports ReportCache, base models.ReportRequest) *ReportsHandler {
	return &ReportsHandler{
		runner:  runner,
		reports: reports,
		base:    base,
	}
}

func (h *ReportsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	mode, prefix, err := api.ParseReportParams(request.QueryStringParameters, h.base.Prefix)
	if err != nil {
		var modeErr models.InvalidModeError
		var prefixErr api.InvalidPrefixError
		if errors.As(err, &modeErr) || errors.As(err, &prefixErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	req := h.base
	req.Prefix = prefix
	if mode == models.ReportModeComfort {
		limit, err := api.ParseLimit(request.QueryStringParameters, h.base.ComfortLimit())
		if err != nil {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		req.Limit = limit
	}

	if h.reports != nil {
		record, err := h.reports.GetReport(ctx, mode, req)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read stored report")
		} else if record != nil && record.Report() != nil {
			log.Debug().Str("mode", string(mode)).Str("prefix", prefix).Msg("Serving stored report")
			return h.respond(record.Report(), true)
		}
	}

	report, err := h.runner.Run(ctx, mode, req)
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Str("prefix", prefix).Msg("Failed to build report")
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, source.ErrNotFound):
			return api.Error("Station file not found", http.StatusNotFound)
		default:
			return api.Error("Error building report", http.StatusInternalServerError)
		}
	}

	if h.reports != nil {
		if err := h.reports.SaveReport(ctx, req, report); err != nil {
			log.Warn().Err(err).Msg("Failed to store report")
		}
	}

	return h.respond(report, false)
}

func (h *ReportsHandler) respond(report any, cached bool) (events.APIGatewayProxyResponse, error) {
	resp, err := api.NewReportResponse(report, cached)
	if err != nil {
		return api.Error("Error building report", http.StatusInternalServerError)
	}
	return api.Success(resp)
}
