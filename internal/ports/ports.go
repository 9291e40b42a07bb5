package ports

import (
	"context"
	"time"

	"G2BLeadMiner/internal/domain"
)

// NoticeSource pulls raw bid notices from the upstream API for a date range.
// Returned notices may contain duplicate keys across overlapping windows;
// deduplication happens downstream.
type NoticeSource interface {
	FetchRange(ctx context.Context, start, end time.Time) ([]domain.RawNotice, error)
}

// Scheduler controls when recurring pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
