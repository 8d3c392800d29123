package billing_test

import (
	"testing"
	"time"

	"github.com/sangkips/folio-api/internal/domain/billing"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newEngine(opts ...billing.Option) *billing.Engine {
	opts = append([]billing.Option{billing.WithClock(func() time.Time { return fixedNow })}, opts...)
	return billing.NewEngine(opts...)
}

func coffeeLedger(t *testing.T, e *billing.Engine) *entity.Ledger {
	t.Helper()
	l := &entity.Ledger{}
	mustWrite(t, l, 0, coffeePatch())
	e.Recompute(l)
	return l
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestRecompute_CoffeeScenario(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	sum := billing.Aggregate(l)
	line := sum.Rooms[0].Lines[0]
	assertDec(t, "itemTotal", line.ItemTotal, "200")
	assertDec(t, "cgst", line.CGST, "18")
	assertDec(t, "sgst", line.SGST, "18")
	assertDec(t, "TotalAmount", l.TotalAmount, "236")
	assertDec(t, "DueAmount", l.DueAmount, "236")

	if err := e.ApplyPayment(l, dec("100"), "Cash", fixedNow); err != nil {
		t.Fatalf("ApplyPayment(100) error = %v", err)
	}
	assertDec(t, "AdvancePaid", l.AdvancePaid, "100")
	assertDec(t, "DueAmount", l.DueAmount, "136")
	if len(l.PaymentHistory) != 1 {
		t.Fatalf("len(PaymentHistory) = %d, want 1", len(l.PaymentHistory))
	}

	err := e.ApplyPayment(l, dec("200"), "Cash", fixedNow)
	if apperror.KindOf(err) != apperror.KindPaymentExceedsTotal {
		t.Fatalf("ApplyPayment(200) error = %v, want PaymentExceedsTotal", err)
	}
	assertDec(t, "DueAmount after rejected payment", l.DueAmount, "136")

	if err := e.SetStatusFlag(l, enum.StatusFlagCancelled, true); err != nil {
		t.Fatalf("SetStatusFlag() error = %v", err)
	}
	assertDec(t, "DueAmount when cancelled", l.DueAmount, "0")
	assertDec(t, "TotalAmount when cancelled", l.TotalAmount, "236")
}

func TestRecompute_Idempotent(t *testing.T) {
	e := newEngine()
	l := &entity.Ledger{}
	mustWrite(t, l, 0, coffeePatch())
	mustWrite(t, l, 2, billing.RoomPatch{
		Items:      billing.Replace([]string{"Suite", "Spa"}),
		Prices:     billing.Replace([]string{"4999.99", "1250.5"}),
		Quantities: billing.Replace([]string{"3", "1"}),
		TaxRates:   billing.Replace([]string{"18", "12"}),
	})
	e.Recompute(l)
	total, due := l.TotalAmount, l.DueAmount
	e.Recompute(l)

	if !l.TotalAmount.Equal(total) || !l.DueAmount.Equal(due) {
		t.Errorf("second Recompute gave total=%s due=%s, want total=%s due=%s", l.TotalAmount, l.DueAmount, total, due)
	}
}

func TestResolveRate_Fallback(t *testing.T) {
	null := decimal.NullDecimal{}
	some := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

	tests := []struct {
		name     string
		combined decimal.NullDecimal
		cgst     decimal.NullDecimal
		sgst     decimal.NullDecimal
		wantCGST string
		wantSGST string
	}{
		{"legacy combined splits evenly", some("18"), null, null, "9", "9"},
		{"explicit split ignores combined", some("28"), some("9"), some("9"), "9", "9"},
		{"explicit zero wins over combined", some("18"), some("0"), some("0"), "0", "0"},
		{"missing component falls back to half", some("12"), some("9"), null, "9", "6"},
		{"nothing stored is zero", null, null, null, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cgst, sgst := billing.ResolveRate(tt.combined, tt.cgst, tt.sgst).Split()
			assertDec(t, "cgst", cgst, tt.wantCGST)
			assertDec(t, "sgst", sgst, tt.wantSGST)
		})
	}
}

func TestResolveRate_Variants(t *testing.T) {
	if _, ok := billing.ResolveRate(decimal.NewNullDecimal(dec("18")), decimal.NullDecimal{}, decimal.NullDecimal{}).(billing.LegacyCombined); !ok {
		t.Error("combined-only rate should resolve to LegacyCombined")
	}
	if _, ok := billing.ResolveRate(decimal.NullDecimal{}, decimal.NewNullDecimal(dec("9")), decimal.NewNullDecimal(dec("9"))).(billing.ExplicitSplit); !ok {
		t.Error("explicit rates should resolve to ExplicitSplit")
	}
}

func TestAggregate_ShortSequencesReadAsZero(t *testing.T) {
	l := &entity.Ledger{}
	mustWrite(t, l, 0, billing.RoomPatch{
		Items:      billing.Replace([]string{"Coffee", "Tea", "Water"}),
		Prices:     billing.Replace([]string{"100", "50"}),
		Quantities: billing.Replace([]string{"1"}),
		TaxRates:   billing.Replace([]string{"10", "10", "10", "10"}),
	})

	sum := billing.Aggregate(l)

	if n := len(sum.Rooms[0].Lines); n != 3 {
		t.Fatalf("lines = %d, want 3 (one per item)", n)
	}
	assertDec(t, "Total", sum.Total, "110")
	assertDec(t, "line 1 itemTotal", sum.Rooms[0].Lines[1].ItemTotal, "0")
}

func TestApplyPayment_RejectedPaymentChangesNothing(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	err := e.ApplyPayment(l, dec("236.01"), "Card", fixedNow)
	if apperror.KindOf(err) != apperror.KindPaymentExceedsTotal {
		t.Fatalf("ApplyPayment() error = %v, want PaymentExceedsTotal", err)
	}
	assertDec(t, "AdvancePaid", l.AdvancePaid, "0")
	assertDec(t, "DueAmount", l.DueAmount, "236")
	if len(l.PaymentHistory) != 0 {
		t.Errorf("len(PaymentHistory) = %d, want 0", len(l.PaymentHistory))
	}
}

func TestApplyPayment_ExactSettlement(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	if err := e.ApplyPayment(l, dec("236"), "UPI", fixedNow); err != nil {
		t.Fatalf("ApplyPayment(236) error = %v", err)
	}
	assertDec(t, "DueAmount", l.DueAmount, "0")
}

func TestApplyPayment_SettlesInvoiceDue(t *testing.T) {
	e := newEngine()
	l := &entity.Ledger{}
	mustWrite(t, l, 0, billing.RoomPatch{
		Items:      billing.Replace([]string{"Lunch"}),
		Prices:     billing.Replace([]string{"99.99"}),
		Quantities: billing.Replace([]string{"1"}),
		CGSTRates:  billing.Replace([]string{"2.5"}),
		SGSTRates:  billing.Replace([]string{"2.5"}),
	})
	e.Recompute(l)
	assertDec(t, "TotalAmount", l.TotalAmount, "104.9895")

	due := billing.BuildInvoice(l, "").Due
	assertDec(t, "invoice Due", due, "104.99")

	err := e.ApplyPayment(l, dec("105"), "Cash", fixedNow)
	if apperror.KindOf(err) != apperror.KindPaymentExceedsTotal {
		t.Fatalf("ApplyPayment(105) error = %v, want PaymentExceedsTotal", err)
	}
	if err := e.ApplyPayment(l, due, "Cash", fixedNow); err != nil {
		t.Fatalf("ApplyPayment(%s) error = %v", due, err)
	}
	if got := billing.BuildInvoice(l, "").Due; !got.IsZero() {
		t.Errorf("invoice Due after settlement = %s, want 0", got)
	}

	err = e.ApplyPayment(l, dec("0.01"), "Cash", fixedNow)
	if apperror.KindOf(err) != apperror.KindPaymentExceedsTotal {
		t.Errorf("ApplyPayment(0.01) after settlement error = %v, want PaymentExceedsTotal", err)
	}
}

func TestApplyPayment_InvalidInput(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	tests := []struct {
		name   string
		amount decimal.Decimal
		mode   string
	}{
		{"zero amount", dec("0"), "Cash"},
		{"negative amount", dec("-5"), "Cash"},
		{"blank mode", dec("5"), "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.ApplyPayment(l, tt.amount, tt.mode, fixedNow)
			if apperror.KindOf(err) != apperror.KindInvalidPayment {
				t.Errorf("ApplyPayment() error = %v, want InvalidPayment", err)
			}
		})
	}
}

func TestApplyPayment_HistoryKeepsArrivalOrder(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	backdated := fixedNow.AddDate(0, 0, -5)
	if err := e.ApplyPayment(l, dec("10"), "Cash", fixedNow); err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}
	if err := e.ApplyPayment(l, dec("20"), "Card", backdated); err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}
	if err := e.ApplyPayment(l, dec("30"), "UPI", time.Time{}); err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}

	modes := []string{"Cash", "Card", "UPI"}
	for i, p := range l.PaymentHistory {
		if p.Seq != i+1 || p.Mode != modes[i] {
			t.Errorf("history[%d] = seq %d mode %s, want seq %d mode %s", i, p.Seq, p.Mode, i+1, modes[i])
		}
	}
	if !l.PaymentHistory[1].Date.Equal(backdated) {
		t.Errorf("history[1].Date = %v, want %v", l.PaymentHistory[1].Date, backdated)
	}
	if !l.PaymentHistory[2].Date.Equal(fixedNow) {
		t.Errorf("zero date should default to now, got %v", l.PaymentHistory[2].Date)
	}
	assertDec(t, "DueAmount", l.DueAmount, "176")
}

func TestRecompute_AfterSlotEditKeepsAdvance(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)
	if err := e.ApplyPayment(l, dec("100"), "Cash", fixedNow); err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}

	mustWrite(t, l, 0, billing.RoomPatch{Quantities: billing.Replace([]string{"3"})})
	e.Recompute(l)

	assertDec(t, "TotalAmount", l.TotalAmount, "354")
	assertDec(t, "DueAmount", l.DueAmount, "254")
	assertDec(t, "AdvancePaid", l.AdvancePaid, "100")
}

func TestSetStatusFlag_OverrideKeepsMoney(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)
	if err := e.ApplyPayment(l, dec("36"), "Cash", fixedNow); err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}

	if err := e.SetStatusFlag(l, enum.StatusFlagBillPaid, true); err != nil {
		t.Fatalf("SetStatusFlag() error = %v", err)
	}
	assertDec(t, "DueAmount", l.DueAmount, "0")
	assertDec(t, "ComputedDue", l.ComputedDue, "200")
	assertDec(t, "AdvancePaid", l.AdvancePaid, "36")
	assertDec(t, "TotalAmount", l.TotalAmount, "236")

	// recompute while flagged still shows zero
	e.Recompute(l)
	assertDec(t, "DueAmount after recompute", l.DueAmount, "0")
}

func TestSetStatusFlag_ReopenPolicy(t *testing.T) {
	tests := []struct {
		name     string
		restore  bool
		wantDue  string
		afterRec string
	}{
		{"restore on reopen", true, "236", "236"},
		{"keep zero until recompute", false, "0", "236"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(billing.WithRestoreDueOnReopen(tt.restore))
			l := coffeeLedger(t, e)

			if err := e.SetStatusFlag(l, enum.StatusFlagCancelled, true); err != nil {
				t.Fatalf("SetStatusFlag(true) error = %v", err)
			}
			if err := e.SetStatusFlag(l, enum.StatusFlagCancelled, false); err != nil {
				t.Fatalf("SetStatusFlag(false) error = %v", err)
			}
			assertDec(t, "DueAmount after reopen", l.DueAmount, tt.wantDue)

			e.Recompute(l)
			assertDec(t, "DueAmount after recompute", l.DueAmount, tt.afterRec)
		})
	}
}

func TestSetStatusFlag_DefaultKeepsZeroUntilRecompute(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	_ = e.SetStatusFlag(l, enum.StatusFlagBillPaid, true)
	_ = e.SetStatusFlag(l, enum.StatusFlagBillPaid, false)
	assertDec(t, "DueAmount after reopen", l.DueAmount, "0")
	assertDec(t, "ComputedDue", l.ComputedDue, "236")

	e.Recompute(l)
	assertDec(t, "DueAmount after recompute", l.DueAmount, "236")
}

func TestSetStatusFlag_OtherFlagStillHolds(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)

	_ = e.SetStatusFlag(l, enum.StatusFlagBillPaid, true)
	_ = e.SetStatusFlag(l, enum.StatusFlagCancelled, true)
	_ = e.SetStatusFlag(l, enum.StatusFlagCancelled, false)

	assertDec(t, "DueAmount", l.DueAmount, "0")
}

func TestSetStatusFlag_UnknownFlag(t *testing.T) {
	e := newEngine()
	l := coffeeLedger(t, e)
	if err := e.SetStatusFlag(l, enum.StatusFlag(7), true); err == nil {
		t.Error("SetStatusFlag(unknown) error = nil, want error")
	}
}
