package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/folio-api/internal/domain/billing"
)

// Number accepts a JSON number or a numeric string and keeps the raw text,
// so values are parsed exactly and reported verbatim when invalid. null
// becomes the empty string.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected a number or numeric string, got %s", data)
		}
		*n = Number(num.String())
	}
	return nil
}

// StringOrSlice accepts either a single string or a list of strings
type StringOrSlice []string

func (s *StringOrSlice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringOrSlice{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// CreateLedgerRequest represents a request to open a folio
type CreateLedgerRequest struct {
	GuestName  string `json:"guest_name" binding:"max=255"`
	GuestState string `json:"guest_state" binding:"max=100"`
}

// RoomSlotRequest writes one room slot. A field left out keeps its current
// sequence; a field that is present replaces the whole sequence.
type RoomSlotRequest struct {
	Items      *[]string `json:"items"`
	Prices     *[]Number `json:"prices"`
	Quantities *[]Number `json:"quantities"`
	TaxRates   *[]Number `json:"tax_rates"`
	CGSTRates  *[]Number `json:"cgst_rates"`
	SGSTRates  *[]Number `json:"sgst_rates"`
	HSNCodes   *[]string `json:"hsn_codes"`
	Remarks    *[]string `json:"remarks"`
}

// ToPatch converts the request into a room patch
func (r *RoomSlotRequest) ToPatch() billing.RoomPatch {
	return billing.RoomPatch{
		Items:      textField(r.Items),
		Prices:     numberField(r.Prices),
		Quantities: numberField(r.Quantities),
		TaxRates:   numberField(r.TaxRates),
		CGSTRates:  numberField(r.CGSTRates),
		SGSTRates:  numberField(r.SGSTRates),
		HSNCodes:   textField(r.HSNCodes),
		Remarks:    textField(r.Remarks),
	}
}

func textField(v *[]string) billing.Field[[]string] {
	if v == nil {
		return billing.Unchanged[[]string]()
	}
	return billing.Replace(*v)
}

func numberField(v *[]Number) billing.Field[[]string] {
	if v == nil {
		return billing.Unchanged[[]string]()
	}
	out := make([]string, len(*v))
	for i, n := range *v {
		out[i] = string(n)
	}
	return billing.Replace(out)
}

// PaymentRequest records a part-payment. Date is optional and accepts
// YYYY-MM-DD or RFC 3339.
type PaymentRequest struct {
	Amount Number `json:"amount"`
	Mode   string `json:"mode" binding:"max=50"`
	Date   string `json:"date" binding:"omitempty"`
}

// ParseDate returns the payment date, or the zero time when none was sent
func (r *PaymentRequest) ParseDate() (time.Time, error) {
	d := strings.TrimSpace(r.Date)
	if d == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", d); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, d)
}

// StatusFlagRequest sets or clears a status flag
type StatusFlagRequest struct {
	Flag  string `json:"flag" binding:"required,oneof=bill_paid cancelled"`
	Value *bool  `json:"value" binding:"required"`
}

// RemarksRequest appends remarks. Field defaults to general.
type RemarksRequest struct {
	Field   string        `json:"field" binding:"omitempty,oneof=general cancellation"`
	Remarks StringOrSlice `json:"remarks" binding:"required"`
}
