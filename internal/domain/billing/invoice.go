package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one presented line with tax shown for the invoice's jurisdiction
type InvoiceLine struct {
	Room      int             `json:"room"`
	Line      int             `json:"line"`
	Item      string          `json:"item"`
	HSNCode   string          `json:"hsn_code,omitempty"`
	Remark    string          `json:"remark,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Taxable   decimal.Decimal `json:"taxable"`
	CGSTRate  decimal.Decimal `json:"cgst_rate"`
	SGSTRate  decimal.Decimal `json:"sgst_rate"`
	IGSTRate  decimal.Decimal `json:"igst_rate"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	IGST      decimal.Decimal `json:"igst"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Invoice is the presentation of a ledger for one jurisdiction
type Invoice struct {
	LedgerID     uuid.UUID         `json:"ledger_id"`
	BillNo       string            `json:"bill_no"`
	GuestName    string            `json:"guest_name"`
	GuestState   string            `json:"guest_state"`
	AccountState string            `json:"account_state"`
	Jurisdiction enum.Jurisdiction `json:"jurisdiction"`
	Lines        []InvoiceLine     `json:"lines"`
	Taxable      decimal.Decimal   `json:"taxable"`
	CGST         decimal.Decimal   `json:"cgst"`
	SGST         decimal.Decimal   `json:"sgst"`
	IGST         decimal.Decimal   `json:"igst"`
	Total        decimal.Decimal   `json:"total"`
	AdvancePaid  decimal.Decimal   `json:"advance_paid"`
	Due          decimal.Decimal   `json:"due"`
	BillPaid     bool              `json:"bill_paid"`
	Cancelled    bool              `json:"cancelled"`
	Payments     []entity.Payment  `json:"payments"`
}

// JurisdictionFor compares the guest's state with the account's registered
// state. A guest without a state is billed as same-state.
func JurisdictionFor(guestState, accountState string) enum.Jurisdiction {
	g := normalizeState(guestState)
	if g == "" || g == normalizeState(accountState) {
		return enum.JurisdictionIntraState
	}
	return enum.JurisdictionInterState
}

func normalizeState(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// BuildInvoice presents the ledger's stored rates in CGST/SGST or IGST form.
// The split is decided here and never written back to the ledger. Amounts
// are rounded to two places; the rounding is applied to each presented value
// independently of the exact totals held on the ledger.
func BuildInvoice(l *entity.Ledger, accountState string) Invoice {
	j := JurisdictionFor(l.GuestState, accountState)
	inv := Invoice{
		LedgerID:     l.ID,
		BillNo:       l.BillNo,
		GuestName:    l.GuestName,
		GuestState:   l.GuestState,
		AccountState: accountState,
		Jurisdiction: j,
		AdvancePaid:  l.AdvancePaid.Round(currencyPlaces),
		Due:          l.DueAmount.Round(currencyPlaces),
		BillPaid:     l.BillPaid,
		Cancelled:    l.Cancelled,
		Payments:     l.PaymentHistory,
	}

	var taxable, cgst, sgst, total decimal.Decimal
	for r, slot := range l.RoomSlots {
		for _, line := range Lines(r, slot) {
			amt := line.Amount()
			cgstRate, sgstRate := line.Rate.Split()
			il := InvoiceLine{
				Room:      r,
				Line:      line.Index,
				Item:      line.Item,
				HSNCode:   line.HSNCode,
				Remark:    line.Remark,
				Price:     line.Price,
				Quantity:  line.Quantity,
				Taxable:   amt.ItemTotal.Round(currencyPlaces),
				LineTotal: amt.Charge.Round(currencyPlaces),
			}
			if j == enum.JurisdictionIntraState {
				il.CGSTRate, il.SGSTRate = cgstRate, sgstRate
				il.CGST, il.SGST = amt.CGST.Round(currencyPlaces), amt.SGST.Round(currencyPlaces)
			} else {
				il.IGSTRate = cgstRate.Add(sgstRate)
				il.IGST = amt.CGST.Add(amt.SGST).Round(currencyPlaces)
			}
			inv.Lines = append(inv.Lines, il)

			taxable = taxable.Add(amt.ItemTotal)
			cgst = cgst.Add(amt.CGST)
			sgst = sgst.Add(amt.SGST)
			total = total.Add(amt.Charge)
		}
	}

	inv.Taxable = taxable.Round(currencyPlaces)
	inv.Total = total.Round(currencyPlaces)
	if j == enum.JurisdictionIntraState {
		inv.CGST, inv.SGST = cgst.Round(currencyPlaces), sgst.Round(currencyPlaces)
	} else {
		inv.IGST = cgst.Add(sgst).Round(currencyPlaces)
	}
	return inv
}
