package billing

import (
	"strings"
	"time"

	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// LineAmount is the money breakdown of one line
type LineAmount struct {
	ItemTotal decimal.Decimal `json:"item_total"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	Charge    decimal.Decimal `json:"charge"`
}

// Amount applies the line rule: price times quantity plus both tax components
func (l Line) Amount() LineAmount {
	itemTotal := l.Price.Mul(l.Quantity)
	cgstRate, sgstRate := l.Rate.Split()
	cgst := itemTotal.Mul(cgstRate).Div(hundred)
	sgst := itemTotal.Mul(sgstRate).Div(hundred)
	return LineAmount{
		ItemTotal: itemTotal,
		CGST:      cgst,
		SGST:      sgst,
		Charge:    itemTotal.Add(cgst).Add(sgst),
	}
}

// RoomSummary totals one room slot
type RoomSummary struct {
	Index     int             `json:"index"`
	Lines     []LineAmount    `json:"lines"`
	ItemTotal decimal.Decimal `json:"item_total"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	Charge    decimal.Decimal `json:"charge"`
}

// Summary totals a whole ledger
type Summary struct {
	Rooms     []RoomSummary   `json:"rooms"`
	ItemTotal decimal.Decimal `json:"item_total"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	Total     decimal.Decimal `json:"total"`
}

// Aggregate walks every slot and line of the ledger. It reads only the slots,
// so calling it twice on the same slots gives the same result.
func Aggregate(l *entity.Ledger) Summary {
	sum := Summary{Rooms: make([]RoomSummary, 0, len(l.RoomSlots))}
	for r, slot := range l.RoomSlots {
		room := RoomSummary{Index: r, Lines: make([]LineAmount, 0, slot.LineCount())}
		for _, line := range Lines(r, slot) {
			amt := line.Amount()
			room.Lines = append(room.Lines, amt)
			room.ItemTotal = room.ItemTotal.Add(amt.ItemTotal)
			room.CGST = room.CGST.Add(amt.CGST)
			room.SGST = room.SGST.Add(amt.SGST)
			room.Charge = room.Charge.Add(amt.Charge)
		}
		sum.Rooms = append(sum.Rooms, room)
		sum.ItemTotal = sum.ItemTotal.Add(room.ItemTotal)
		sum.CGST = sum.CGST.Add(room.CGST)
		sum.SGST = sum.SGST.Add(room.SGST)
		sum.Total = sum.Total.Add(room.Charge)
	}
	return sum
}

// Engine owns the money fields of a ledger
type Engine struct {
	restoreDueOnReopen bool
	now                func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithRestoreDueOnReopen controls what clearing the last status flag does.
// When true the displayed due goes back to the computed due at once; when
// false it stays at zero until the next Recompute.
func WithRestoreDueOnReopen(restore bool) Option {
	return func(e *Engine) {
		e.restoreDueOnReopen = restore
	}
}

// WithClock sets the clock used to stamp payments
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine. By default clearing a flag leaves the due at
// zero until the next Recompute.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		restoreDueOnReopen: false,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recompute derives TotalAmount, ComputedDue and DueAmount from the current
// slots and advance. It is a full recomputation, never a delta.
func (e *Engine) Recompute(l *entity.Ledger) Summary {
	sum := Aggregate(l)
	l.TotalAmount = sum.Total
	l.ComputedDue = sum.Total.Sub(l.AdvancePaid)
	l.DueAmount = displayedDue(l)
	return sum
}

// ApplyPayment records a part-payment. The payment is rejected when it is
// more than the remaining due rounded to currency scale; a rejected payment
// changes nothing. History is appended in arrival order whatever the payment date.
func (e *Engine) ApplyPayment(l *entity.Ledger, amount decimal.Decimal, mode string, date time.Time) error {
	mode = strings.TrimSpace(mode)
	if !amount.IsPositive() {
		return apperror.NewInvalidPaymentError("payment amount must be greater than zero")
	}
	if mode == "" {
		return apperror.NewInvalidPaymentError("payment mode is required")
	}

	// compared at currency scale so the due shown on an invoice settles the bill
	remaining := l.TotalAmount.Sub(l.AdvancePaid).Round(currencyPlaces)
	if amount.GreaterThan(remaining) {
		return apperror.NewPaymentExceedsTotalError(amount.StringFixed(2), remaining.StringFixed(2))
	}

	recordedAt := e.now()
	if date.IsZero() {
		date = recordedAt
	}
	l.AdvancePaid = l.AdvancePaid.Add(amount)
	l.PaymentHistory = append(l.PaymentHistory, entity.Payment{
		Seq:        len(l.PaymentHistory) + 1,
		Date:       date,
		Mode:       mode,
		Amount:     amount,
		RecordedAt: recordedAt,
	})
	l.ComputedDue = l.TotalAmount.Sub(l.AdvancePaid)
	l.DueAmount = displayedDue(l)
	return nil
}

// SetStatusFlag sets or clears bill_paid or cancelled. A set flag shows the
// due as zero; the total, advance, computed due and history are kept as is.
func (e *Engine) SetStatusFlag(l *entity.Ledger, flag enum.StatusFlag, value bool) error {
	switch flag {
	case enum.StatusFlagBillPaid:
		l.BillPaid = value
	case enum.StatusFlagCancelled:
		l.Cancelled = value
	default:
		return apperror.NewBadRequestError("unknown status flag " + flag.String())
	}

	if overridden(l) || e.restoreDueOnReopen {
		l.DueAmount = displayedDue(l)
	}
	return nil
}

func overridden(l *entity.Ledger) bool {
	return l.BillPaid || l.Cancelled
}

func displayedDue(l *entity.Ledger) decimal.Decimal {
	if overridden(l) {
		return decimal.Zero
	}
	return l.ComputedDue
}
