package enum

import "encoding/json"

// Jurisdiction decides how the tax on an invoice is presented
type Jurisdiction int

const (
	// JurisdictionIntraState shows tax as the CGST/SGST pair
	JurisdictionIntraState Jurisdiction = 0
	// JurisdictionInterState shows tax as a single IGST component
	JurisdictionInterState Jurisdiction = 1
)

func (j Jurisdiction) String() string {
	names := [...]string{"IntraState", "InterState"}
	if int(j) < 0 || int(j) >= len(names) {
		return "IntraState"
	}
	return names[j]
}

func (j Jurisdiction) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.String())
}
