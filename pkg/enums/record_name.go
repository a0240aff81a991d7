package enums

import "fmt"

// RecordName identifies one of the named storage records kept per owner.
// The names are part of the persisted format and must not change.
type RecordName string

const (
	RecordCartItems RecordName = "cartItems"
	RecordOrders    RecordName = "orders"
)

var validRecordNames = []RecordName{
	RecordCartItems,
	RecordOrders,
}

// String implements fmt.Stringer.
func (r RecordName) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecordName.
func (r RecordName) IsValid() bool {
	for _, candidate := range validRecordNames {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecordName converts raw input into a RecordName.
func ParseRecordName(value string) (RecordName, error) {
	for _, candidate := range validRecordNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record name %q", value)
}
