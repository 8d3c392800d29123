package enum

import (
	"encoding/json"
	"fmt"
)

// StatusFlag names one of the workflow flags on a ledger
type StatusFlag int

const (
	StatusFlagBillPaid  StatusFlag = 0
	StatusFlagCancelled StatusFlag = 1
)

var statusFlagNames = [...]string{"bill_paid", "cancelled"}

func (f StatusFlag) String() string {
	if int(f) < 0 || int(f) >= len(statusFlagNames) {
		return "unknown"
	}
	return statusFlagNames[f]
}

// Valid reports whether f is a known flag
func (f StatusFlag) Valid() bool {
	return int(f) >= 0 && int(f) < len(statusFlagNames)
}

// ParseStatusFlag resolves a flag from its wire name
func ParseStatusFlag(s string) (StatusFlag, error) {
	for i, name := range statusFlagNames {
		if name == s {
			return StatusFlag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status flag %q", s)
}

func (f StatusFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *StatusFlag) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseStatusFlag(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
