package services

import (
	"math"
	"strings"

	"itad_backend/internal/models"
)

// ComputeTotals derives subtotal, normalized discount amount and total
// from the line items. Client-supplied totals are never trusted; every
// write point that can change pricing goes through here. Percentage
// discounts are normalized to an amount against the computed subtotal.
func ComputeTotals(items []models.QuoteLineItem, discountType string, discountValue float64) (subtotal, discountAmount, total float64) {
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}
	subtotal = roundMoney(subtotal)

	switch discountType {
	case models.DiscountTypePercentage:
		discountAmount = roundMoney(subtotal * discountValue / 100)
	default:
		discountAmount = roundMoney(discountValue)
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}

	total = roundMoney(subtotal - discountAmount)
	return subtotal, discountAmount, total
}

// LineTotal computes one line's total.
func LineTotal(quantity, unitPrice float64) float64 {
	return roundMoney(quantity * unitPrice)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// NumberFromID derives a short human-facing number ("Q-3FA85F64")
// from an entity's UUID.
func NumberFromID(prefix, id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return prefix + "-" + strings.ToUpper(compact)
}
