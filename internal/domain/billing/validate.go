package billing

import (
	"errors"
	"slices"
	"strings"

	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// checkedPatch is a RoomPatch whose numeric sequences have been parsed
type checkedPatch struct {
	items      Field[[]string]
	prices     Field[[]decimal.Decimal]
	quantities Field[[]decimal.Decimal]
	taxRates   Field[[]decimal.NullDecimal]
	cgstRates  Field[[]decimal.NullDecimal]
	sgstRates  Field[[]decimal.NullDecimal]
	hsnCodes   Field[[]string]
	remarks    Field[[]string]
}

func checkPatch(room int, p RoomPatch) (checkedPatch, error) {
	var (
		out checkedPatch
		err error
	)
	out.items = cloneText(p.Items)
	out.hsnCodes = cloneText(p.HSNCodes)
	out.remarks = cloneText(p.Remarks)

	if out.prices, err = checkAmounts(room, "prices", p.Prices); err != nil {
		return checkedPatch{}, err
	}
	if out.quantities, err = checkAmounts(room, "quantities", p.Quantities); err != nil {
		return checkedPatch{}, err
	}
	if out.taxRates, err = checkRates(room, "tax_rates", p.TaxRates); err != nil {
		return checkedPatch{}, err
	}
	if out.cgstRates, err = checkRates(room, "cgst_rates", p.CGSTRates); err != nil {
		return checkedPatch{}, err
	}
	if out.sgstRates, err = checkRates(room, "sgst_rates", p.SGSTRates); err != nil {
		return checkedPatch{}, err
	}
	return out, nil
}

func cloneText(f Field[[]string]) Field[[]string] {
	v, ok := f.Get()
	if !ok {
		return Unchanged[[]string]()
	}
	return Replace(slices.Clone(v))
}

// checkAmounts parses prices or quantities. Every entry must be present.
func checkAmounts(room int, name string, f Field[[]string]) (Field[[]decimal.Decimal], error) {
	raw, ok := f.Get()
	if !ok {
		return Unchanged[[]decimal.Decimal](), nil
	}
	out := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := ParseAmount(s)
		if err != nil {
			return Field[[]decimal.Decimal]{}, apperror.NewInvalidLineError(room, i, name, s)
		}
		out[i] = d
	}
	return Replace(out), nil
}

// checkRates parses a rate sequence. Blank entries are kept as absent.
func checkRates(room int, name string, f Field[[]string]) (Field[[]decimal.NullDecimal], error) {
	raw, ok := f.Get()
	if !ok {
		return Unchanged[[]decimal.NullDecimal](), nil
	}
	out := make([]decimal.NullDecimal, len(raw))
	for i, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		d, err := ParseAmount(s)
		if err != nil {
			return Field[[]decimal.NullDecimal]{}, apperror.NewInvalidLineError(room, i, name, s)
		}
		out[i] = decimal.NewNullDecimal(d)
	}
	return Replace(out), nil
}

// ParseAmount parses a non-negative decimal from caller text
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}

var errNegative = errors.New("value must not be negative")
