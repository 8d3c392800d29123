package billing

import (
	"strings"

	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/sangkips/folio-api/pkg/apperror"
)

// EnsureSlot grows the ledger so that roomIndex addresses a slot, appending
// empty slots as needed. Slots are never removed or reordered.
func EnsureSlot(l *entity.Ledger, roomIndex int) error {
	if roomIndex < 0 {
		return apperror.NewInvalidIndexError(roomIndex)
	}
	for len(l.RoomSlots) <= roomIndex {
		l.RoomSlots = append(l.RoomSlots, entity.RoomCharge{})
	}
	return nil
}

// Slot returns the slot at roomIndex without growing the ledger
func Slot(l *entity.Ledger, roomIndex int) (entity.RoomCharge, bool) {
	if roomIndex < 0 || roomIndex >= len(l.RoomSlots) {
		return entity.RoomCharge{}, false
	}
	return l.RoomSlots[roomIndex], true
}

// WriteSlot applies a partial write to one room slot. Each field set in the
// patch replaces that whole sequence of the slot; it is not merged line by
// line, so callers resend every line they want to keep. Fields left unchanged
// keep their stored sequence. Nothing is applied unless every value in the
// patch is valid. Other slots are never touched.
func WriteSlot(l *entity.Ledger, roomIndex int, patch RoomPatch) error {
	if roomIndex < 0 {
		return apperror.NewInvalidIndexError(roomIndex)
	}
	checked, err := checkPatch(roomIndex, patch)
	if err != nil {
		return err
	}
	if err := EnsureSlot(l, roomIndex); err != nil {
		return err
	}

	slot := l.RoomSlots[roomIndex]
	if v, ok := checked.items.Get(); ok {
		slot.Items = v
	}
	if v, ok := checked.prices.Get(); ok {
		slot.Prices = v
	}
	if v, ok := checked.quantities.Get(); ok {
		slot.Quantities = v
	}
	if v, ok := checked.taxRates.Get(); ok {
		slot.TaxRates = v
	}
	if v, ok := checked.cgstRates.Get(); ok {
		slot.CGSTRates = v
	}
	if v, ok := checked.sgstRates.Get(); ok {
		slot.SGSTRates = v
	}
	if v, ok := checked.hsnCodes.Get(); ok {
		slot.HSNCodes = v
	}
	if v, ok := checked.remarks.Get(); ok {
		slot.Remarks = v
	}
	l.RoomSlots[roomIndex] = slot
	return nil
}

// AppendRemarks adds remarks to the end of an append-only remark list.
// Unlike WriteSlot this never replaces what is stored: one remark or many
// are concatenated after the existing ones. Blank remarks are dropped.
func AppendRemarks(l *entity.Ledger, field enum.RemarkField, remarks ...string) error {
	var target *[]string
	switch field {
	case enum.RemarkFieldGeneral:
		target = &l.Remarks
	case enum.RemarkFieldCancellation:
		target = &l.CancellationRemarks
	default:
		return apperror.NewBadRequestError("unknown remark field " + field.String())
	}

	for _, r := range remarks {
		if r = strings.TrimSpace(r); r != "" {
			*target = append(*target, r)
		}
	}
	return nil
}
