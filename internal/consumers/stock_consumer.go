package consumers

import (
	"catalog/app/catalog"
	"catalog/pkg/events"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// InventoryCaller is the identity stock updates run under.
var InventoryCaller = catalog.Caller{ID: "system:inventory"}

// StockEventHandler keeps the in-stock flag of products in line with the
// inventory service.
type StockEventHandler struct {
	admin  *catalog.AdminService
	logger *zap.Logger
}

func NewStockEventHandler(admin *catalog.AdminService, logger *zap.Logger) *StockEventHandler {
	return &StockEventHandler{
		admin:  admin,
		logger: logger,
	}
}

func (h *StockEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("Stock event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.StockDepletedEvent:
		return h.setStock(ctx, event, false)
	case events.StockReplenishedEvent:
		return h.setStock(ctx, event, true)
	default:
		h.logger.Warn("Unknown stock event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *StockEventHandler) setStock(ctx context.Context, event *events.Event, inStock bool) error {
	var payload events.StockChangedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return err
	}
	if payload.ProductID <= 0 {
		return fmt.Errorf("malformed payload - productId missing or invalid")
	}

	ctx = catalog.WithCaller(ctx, InventoryCaller)
	product, err := h.admin.SetProductStock(ctx, payload.ProductID, inStock)
	if err != nil {
		// The product was removed from the catalog; nothing left to update.
		if errors.Is(err, catalog.ErrNotFound) {
			h.logger.Warn("Stock event for unknown product",
				zap.Int64("productId", payload.ProductID),
				zap.String("traceId", event.TraceID),
			)
			return nil
		}
		return fmt.Errorf("failed to update stock of product %d: %w", payload.ProductID, err)
	}

	h.logger.Info("Product stock updated",
		zap.Int64("productId", product.ID),
		zap.Bool("inStock", product.InStock),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
