package models

import "context"

type ReportRunner interface {
	Run(ctx context.Context, mode ReportMode, req ReportRequest) (any, error)
}
