package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	orderID := uuid.New()
	at := time.Date(2025, 4, 2, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	e, err := NewEvent(EventTypeOrderCreated, orderID, at, OrderCreatedPayload{
		CustomerID:  uuid.New(),
		Total:       decimal.RequireFromString("30.00"),
		PaymentMode: "cash_on_delivery",
		Lines:       1,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.Equal(t, []byte(orderID.String()), e.Key())

	data, err := e.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, EventTypeOrderCreated, decoded.Type)

	var p OrderCreatedPayload
	require.NoError(t, decoded.DecodePayload(&p))
	assert.True(t, p.Total.Equal(decimal.NewFromInt(30)))
}

func TestUnmarshalEvent_Rejects(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"type":""}`))
	assert.Error(t, err)

	_, err = UnmarshalEvent([]byte(`not json`))
	assert.Error(t, err)
}
