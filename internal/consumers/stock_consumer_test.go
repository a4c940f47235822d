package consumers

import (
	"catalog/app/catalog"
	"catalog/infra/sqlstore/sqlstoretest"
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// consumed returns the event as a consumer sees it after decoding the wire
// JSON, with a generic payload.
func consumed(t *testing.T, name string, payload any) *events.Event {
	t.Helper()
	raw, err := events.NewEvent(name, events.EventVersionV1, payload, events.NewHeaders("inventory")).ToJSON()
	require.NoError(t, err)

	var event events.Event
	require.NoError(t, json.Unmarshal(raw, &event))
	return &event
}

func setup(t *testing.T, authorizer catalog.Authorizer) (*StockEventHandler, *catalog.QueryService, int64) {
	t.Helper()
	repo := sqlstoretest.Open(t)
	admin := catalog.NewAdminService(repo, authorizer, nil)

	ctx := catalog.WithCaller(context.Background(), InventoryCaller)
	price := decimal.RequireFromString("9.99")
	product, err := admin.CreateProduct(ctx, catalog.ProductRequest{
		Name:  "Go Guide",
		Price: &price,
	})
	require.NoError(t, err)

	return NewStockEventHandler(admin, zap.NewNop()), catalog.NewQueryService(repo), product.ID
}

func TestStockEventsToggleAvailability(t *testing.T) {
	handler, query, id := setup(t, nil)
	ctx := context.Background()

	require.NoError(t, handler.HandleEvent(ctx, consumed(t, events.StockDepletedEvent, events.StockChangedPayload{ProductID: id})))
	product, err := query.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, product.InStock)

	require.NoError(t, handler.HandleEvent(ctx, consumed(t, events.StockReplenishedEvent, events.StockChangedPayload{ProductID: id})))
	product, err = query.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.True(t, product.InStock)
	assert.Equal(t, "Go Guide", product.Name)
}

func TestStockEventForUnknownProductIsAcknowledged(t *testing.T) {
	handler, _, _ := setup(t, nil)

	err := handler.HandleEvent(context.Background(), consumed(t, events.StockDepletedEvent, events.StockChangedPayload{ProductID: 999}))

	assert.NoError(t, err)
}

func TestStockEventRejectsMalformedPayload(t *testing.T) {
	handler, _, _ := setup(t, nil)

	err := handler.HandleEvent(context.Background(), consumed(t, events.StockDepletedEvent, map[string]string{"sku": "X-1"}))

	assert.ErrorContains(t, err, "productId missing")
}

func TestUnknownStockEventIsIgnored(t *testing.T) {
	handler, _, _ := setup(t, nil)

	assert.NoError(t, handler.HandleEvent(context.Background(), consumed(t, "stock.audited", nil)))
}

func TestStockEventsRunAsInventoryCaller(t *testing.T) {
	var seen []catalog.Caller
	authorizer := catalog.AuthorizerFunc(func(_ context.Context, caller catalog.Caller) error {
		seen = append(seen, caller)
		if caller != InventoryCaller {
			return errors.New("not the inventory service")
		}
		return nil
	})
	handler, _, id := setup(t, authorizer)

	require.NoError(t, handler.HandleEvent(context.Background(), consumed(t, events.StockDepletedEvent, events.StockChangedPayload{ProductID: id})))

	assert.Equal(t, []catalog.Caller{InventoryCaller, InventoryCaller}, seen)
}
