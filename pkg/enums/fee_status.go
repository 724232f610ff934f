package enums

import "fmt"

// FeeStatus tracks the lifecycle of a fee ledger entry.
type FeeStatus string

const (
	FeeStatusPending FeeStatus = "pending"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusOverdue FeeStatus = "overdue"
)

var validFeeStatuses = []FeeStatus{
	FeeStatusPending,
	FeeStatusPartial,
	FeeStatusPaid,
	FeeStatusOverdue,
}

// String implements fmt.Stringer.
func (f FeeStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeeStatus.
func (f FeeStatus) IsValid() bool {
	for _, candidate := range validFeeStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// OutstandingFeeStatuses lists the statuses that still accept payment, in a
// form usable directly in queries.
var OutstandingFeeStatuses = []FeeStatus{
	FeeStatusPending,
	FeeStatusPartial,
	FeeStatusOverdue,
}

// IsOutstanding reports whether an entry in this status still accepts payment.
func (f FeeStatus) IsOutstanding() bool {
	return f == FeeStatusPending || f == FeeStatusPartial || f == FeeStatusOverdue
}

// ParseFeeStatus converts raw input into a FeeStatus.
func ParseFeeStatus(value string) (FeeStatus, error) {
	for _, candidate := range validFeeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fee status %q", value)
}
