package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is one guest folio: a ragged set of room slots plus the payments made against it.
// TotalAmount, ComputedDue and DueAmount are derived by the billing engine and are never
// written by callers.
type Ledger struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	BillNo     string    `gorm:"size:100;unique;not null" json:"bill_no"`
	GuestName  string    `gorm:"size:255" json:"guest_name"`
	GuestState string    `gorm:"size:100" json:"guest_state"`

	RoomSlots      []RoomCharge `gorm:"type:jsonb;serializer:json" json:"room_slots"`
	PaymentHistory []Payment    `gorm:"type:jsonb;serializer:json" json:"payment_history"`

	AdvancePaid decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"advance_paid"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total_amount"`
	ComputedDue decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"computed_due"`
	DueAmount   decimal.Decimal `gorm:"type:numeric;not null;default:0;index" json:"due_amount"`

	BillPaid  bool `gorm:"default:false" json:"bill_paid"`
	Cancelled bool `gorm:"default:false" json:"cancelled"`

	Remarks             []string `gorm:"type:jsonb;serializer:json" json:"remarks"`
	CancellationRemarks []string `gorm:"type:jsonb;serializer:json" json:"cancellation_remarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new ledger
func (l *Ledger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Ledger model
func (Ledger) TableName() string {
	return "ledgers"
}

// RoomCharge holds the charges of one room slot as parallel per-line sequences.
// Line i exists only if Items[i] exists; shorter sequences read as zero or empty.
type RoomCharge struct {
	Items      []string              `json:"items"`
	Prices     []decimal.Decimal     `json:"prices"`
	Quantities []decimal.Decimal     `json:"quantities"`
	TaxRates   []decimal.NullDecimal `json:"tax_rates"`
	CGSTRates  []decimal.NullDecimal `json:"cgst_rates"`
	SGSTRates  []decimal.NullDecimal `json:"sgst_rates"`
	HSNCodes   []string              `json:"hsn_codes,omitempty"`
	Remarks    []string              `json:"remarks,omitempty"`
}

// LineCount returns the number of lines in the slot
func (rc RoomCharge) LineCount() int {
	return len(rc.Items)
}

// IsEmpty reports whether the slot carries no lines
func (rc RoomCharge) IsEmpty() bool {
	return len(rc.Items) == 0
}

// Payment is one entry of the append-only payment audit trail
type Payment struct {
	Seq        int             `json:"seq"`
	Date       time.Time       `json:"date"`
	Mode       string          `json:"mode"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt time.Time       `json:"recorded_at"`
}
