package handler // handler defines http handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/auth"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
	"github.com/iliyamo/ecommerce-backend/internal/metrics"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/validation"
)

// dbTimeout bounds the database work of one request.
const dbTimeout = 5 * time.Second

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, validation.Failed(name + " must be a positive integer")
	}
	return id, nil
}

// bind decodes the body into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// currentUser returns the caller's identity.  Routes that call it sit
// behind RequireUser, so a missing identity is an authentication failure.
func currentUser(c echo.Context) (*auth.Identity, error) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperror.Authentication("Unauthorized", nil)
	}
	return id, nil
}

// catalogHooks runs the side effects of a committed catalog write: the
// response cache is purged, a mutation is counted and an event is
// published.  Every field may be nil.  Failures are logged and never fail
// the request, because the write itself has already committed.
type catalogHooks struct {
	cache   CachePurger
	events  EventPublisher
	metrics *metrics.Metrics
}

func (h catalogHooks) written(c echo.Context, ev queue.CatalogEvent) {
	log := logger.FromEcho(c)
	// the write is done; cancellation of the request must not stop cleanup
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
	defer cancel()

	h.metrics.CatalogMutation(ev.Type)
	if h.cache != nil {
		if err := h.cache.Purge(ctx); err != nil {
			log.Warn("catalog cache purge failed", zap.Error(err))
		}
	}
	if h.events != nil {
		if err := h.events.Publish(ctx, ev); err != nil {
			log.Warn("catalog event not published", zap.String("type", ev.Type), zap.Error(err))
		}
	}
}
