package enum

import (
	"encoding/json"
	"fmt"
)

// RemarkField names an append-only remark list on a ledger
type RemarkField int

const (
	RemarkFieldGeneral      RemarkField = 0
	RemarkFieldCancellation RemarkField = 1
)

var remarkFieldNames = [...]string{"general", "cancellation"}

func (r RemarkField) String() string {
	if int(r) < 0 || int(r) >= len(remarkFieldNames) {
		return "unknown"
	}
	return remarkFieldNames[r]
}

// ParseRemarkField resolves a remark field from its wire name
func ParseRemarkField(s string) (RemarkField, error) {
	for i, name := range remarkFieldNames {
		if name == s {
			return RemarkField(i), nil
		}
	}
	return 0, fmt.Errorf("unknown remark field %q", s)
}

func (r RemarkField) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RemarkField) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseRemarkField(str)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
