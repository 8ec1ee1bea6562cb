// Package repository provides data access on top of the shared GORM
// connection. Every call runs under a bounded timeout; store errors are
// translated into the apperrors taxonomy before they reach a service.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/config"
	"github.com/laptev-dv/diploma-backend/internal/database"
)

const defaultQueryTimeout = 5 * time.Second

// storeCtx derives a bounded context for a single store call.
func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := defaultQueryTimeout
	if config.Conf != nil && config.Conf.Database.QueryTimeoutMS > 0 {
		timeout = time.Duration(config.Conf.Database.QueryTimeoutMS) * time.Millisecond
	}
	return context.WithTimeout(ctx, timeout)
}

// translate maps a raw store error onto the application taxonomy. The
// entity name feeds the not-found message.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(entity + " not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Unavailable("store timed out, retry later", err)
	default:
		return apperrors.Internal("store operation failed", err)
	}
}

func db(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx)
}
