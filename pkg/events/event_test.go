package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoutingKey(t *testing.T) {
	event := NewEvent(ProductCreatedEvent, EventVersionV1, ProductPayload{ID: 1}, NewHeaders("catalog"))

	assert.Equal(t, "product.created.v1", event.GetRoutingKey())
	assert.NotEmpty(t, event.TraceID)
	assert.NotEmpty(t, event.CorrelationID)
	assert.NotEqual(t, event.TraceID, event.CorrelationID)
}

func TestDecodePayloadRoundTripsThroughJSON(t *testing.T) {
	// Consumed events carry the payload as a generic map.
	event := &Event{
		Event:   StockDepletedEvent,
		Version: EventVersionV1,
		Payload: map[string]any{"productId": float64(42)},
	}

	var payload StockChangedPayload
	require.NoError(t, event.DecodePayload(&payload))
	assert.Equal(t, int64(42), payload.ProductID)
}

func TestRecordingPublisher(t *testing.T) {
	p := &RecordingPublisher{}
	headers := NewHeaders("catalog")

	require.NoError(t, p.Publish(context.Background(), CategoryExchange, NewEvent(CategoryCreatedEvent, EventVersionV1, nil, headers), headers))
	require.NoError(t, p.Publish(context.Background(), ProductExchange, NewEvent(ProductDeletedEvent, EventVersionV1, nil, headers), headers))

	assert.Equal(t, []string{CategoryCreatedEvent, ProductDeletedEvent}, p.Names())
	assert.Equal(t, ProductExchange, p.Events()[1].Exchange)
}
