// Package service holds the business operations behind the HTTP handlers.
package service

import (
	"context"
	"errors"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/pkg/delivery"
	"mauryavansham-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Enqueuer accepts outbound delivery jobs
type Enqueuer interface {
	Enqueue(job delivery.Job) bool
}

// Page is a 1-based page request
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

// Offset is the row offset of the page
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a returned page
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

func newPagination(p Page, total int64) Pagination {
	return Pagination{
		CurrentPage: p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  (int(total) + p.Limit - 1) / p.Limit,
	}
}

func logFor(ctx context.Context, base *zap.Logger) *zap.Logger {
	return logger.FromStdContext(ctx, base)
}

// notFoundOr maps gorm's not-found to an AppError and wraps anything else
func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	return apperrors.Internal(err)
}
