package billing

import (
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// currencyPlaces is the scale money is shown and settled at
const currencyPlaces = 2

// RateSource is the tax rate of one line, resolved once from the stored
// sequences. Rates are percentages.
type RateSource interface {
	// Split returns the CGST and SGST percentages
	Split() (cgst, sgst decimal.Decimal)
}

// ExplicitSplit carries per-component rates stored on the line
type ExplicitSplit struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// Split implements RateSource
func (e ExplicitSplit) Split() (decimal.Decimal, decimal.Decimal) {
	return e.CGST, e.SGST
}

// LegacyCombined carries a single combined rate from ledgers written before
// components were stored per line. It is split evenly.
type LegacyCombined struct {
	Rate decimal.Decimal
}

// Split implements RateSource
func (c LegacyCombined) Split() (decimal.Decimal, decimal.Decimal) {
	half := c.Rate.Div(decimal.NewFromInt(2))
	return half, half
}

// ResolveRate picks the rate source of a line. An explicit component wins;
// a component that is missing next to an explicit one takes half of the
// combined rate; with no explicit component the combined rate is used.
func ResolveRate(combined, cgst, sgst decimal.NullDecimal) RateSource {
	legacy := LegacyCombined{Rate: orZero(combined)}
	if !cgst.Valid && !sgst.Valid {
		return legacy
	}
	half, _ := legacy.Split()
	split := ExplicitSplit{CGST: half, SGST: half}
	if cgst.Valid {
		split.CGST = cgst.Decimal
	}
	if sgst.Valid {
		split.SGST = sgst.Decimal
	}
	return split
}

// Line is one charged line of a room slot with its rate already resolved
type Line struct {
	Room     int
	Index    int
	Item     string
	HSNCode  string
	Remark   string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Rate     RateSource
}

// Lines resolves every line of a slot. Sequences shorter than Items read as
// zero or empty for the missing entries.
func Lines(room int, rc entity.RoomCharge) []Line {
	lines := make([]Line, 0, len(rc.Items))
	for i, item := range rc.Items {
		lines = append(lines, Line{
			Room:     room,
			Index:    i,
			Item:     item,
			HSNCode:  at(rc.HSNCodes, i),
			Remark:   at(rc.Remarks, i),
			Price:    at(rc.Prices, i),
			Quantity: at(rc.Quantities, i),
			Rate:     ResolveRate(at(rc.TaxRates, i), at(rc.CGSTRates, i), at(rc.SGSTRates, i)),
		})
	}
	return lines
}

func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
