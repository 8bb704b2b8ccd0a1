package services

import (
	"testing"

	"itad_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentIsTotal(t *testing.T) {
	evt := EventContext{
		CompanyName:   "Acme Recycling",
		QuoteNumber:   "Q-ABCD1234",
		JobNumber:     "J-12345678",
		InvoiceNumber: "INV-42",
		RequestID:     "r-1",
		QuoteID:       "q-1",
		JobID:         "j-1",
		Reason:        "budget",
		Message:       "please revise",
	}

	for _, eventType := range EventTypes() {
		content, ok := ResolveContent(eventType, evt)
		require.True(t, ok, "no template for %s", eventType)
		assert.NotEmpty(t, content.Title, eventType)
		assert.NotEmpty(t, content.Message, eventType)
		assert.NotEmpty(t, content.Link, eventType)
	}

	_, ok := ResolveContent("bogus_event", evt)
	assert.False(t, ok)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, PriorityFor(EventQuoteSent))
	assert.Equal(t, models.PriorityHigh, PriorityFor(EventQuoteAccepted))
	assert.Equal(t, models.PriorityHigh, PriorityFor(EventJobComplete))
	assert.Equal(t, models.PriorityHigh, PriorityFor(EventInvoiceOverdue))
	assert.Equal(t, models.PriorityLow, PriorityFor(EventPickupComplete))
	assert.Equal(t, models.PriorityNormal, PriorityFor(EventRequestSubmitted))
	assert.Equal(t, models.PriorityNormal, PriorityFor(EventQuoteDeclined))
	assert.Equal(t, models.PriorityNormal, PriorityFor("unknown"))
}

func TestComputeTotals(t *testing.T) {
	items := []models.QuoteLineItem{
		{Quantity: 10, UnitPrice: 25},
		{Quantity: 3, UnitPrice: 33.33},
	}

	t.Run("amount discount", func(t *testing.T) {
		subtotal, discount, total := ComputeTotals(items, models.DiscountTypeAmount, 50)
		assert.Equal(t, 349.99, subtotal)
		assert.Equal(t, 50.0, discount)
		assert.Equal(t, 299.99, total)
	})

	t.Run("percentage discount", func(t *testing.T) {
		subtotal, discount, total := ComputeTotals(items, models.DiscountTypePercentage, 10)
		assert.Equal(t, 349.99, subtotal)
		assert.Equal(t, 35.0, discount)
		assert.Equal(t, 314.99, total)
	})

	t.Run("discount never exceeds subtotal", func(t *testing.T) {
		_, discount, total := ComputeTotals(items, models.DiscountTypeAmount, 1000)
		assert.Equal(t, 349.99, discount)
		assert.Equal(t, 0.0, total)
	})

	t.Run("no items", func(t *testing.T) {
		subtotal, discount, total := ComputeTotals(nil, models.DiscountTypeAmount, 25)
		assert.Equal(t, 0.0, subtotal)
		assert.Equal(t, 0.0, discount)
		assert.Equal(t, 0.0, total)
	})
}

func TestNumberFromID(t *testing.T) {
	assert.Equal(t, "Q-3FA85F64", NumberFromID("Q", "3fa85f64-5717-4562-b3fc-2c963f66afa6"))
	assert.Equal(t, "J-AB", NumberFromID("J", "ab"))
}
