package enums

import "fmt"

// EventCode names a domain event a webhook may subscribe to.
type EventCode string

const (
	EventPlanCreated EventCode = "plan_created"
	EventPlanUpdated EventCode = "plan_updated"
	EventPlanDeleted EventCode = "plan_deleted"

	EventSubCreated EventCode = "sub_created"
	EventSubUpdated EventCode = "sub_updated"
	EventSubDeleted EventCode = "sub_deleted"

	EventSubExpired EventCode = "sub_expired"
	EventSubPaused  EventCode = "sub_paused"
	EventSubResumed EventCode = "sub_resumed"
	EventSubRenewed EventCode = "sub_renewed"

	EventSubUsageAdded   EventCode = "sub_usage_added"
	EventSubUsageUpdated EventCode = "sub_usage_updated"
	EventSubUsageRemoved EventCode = "sub_usage_removed"

	EventSubDiscountAdded   EventCode = "sub_discount_added"
	EventSubDiscountUpdated EventCode = "sub_discount_updated"
	EventSubDiscountRemoved EventCode = "sub_discount_removed"
)

var validEventCodes = []EventCode{
	EventPlanCreated,
	EventPlanUpdated,
	EventPlanDeleted,
	EventSubCreated,
	EventSubUpdated,
	EventSubDeleted,
	EventSubExpired,
	EventSubPaused,
	EventSubResumed,
	EventSubRenewed,
	EventSubUsageAdded,
	EventSubUsageUpdated,
	EventSubUsageRemoved,
	EventSubDiscountAdded,
	EventSubDiscountUpdated,
	EventSubDiscountRemoved,
}

// String implements fmt.Stringer.
func (e EventCode) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventCode.
func (e EventCode) IsValid() bool {
	for _, candidate := range validEventCodes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventCode converts raw input into an EventCode.
func ParseEventCode(value string) (EventCode, error) {
	for _, candidate := range validEventCodes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event code %q", value)
}

// AllEventCodes returns the known event codes in declaration order.
func AllEventCodes() []EventCode {
	out := make([]EventCode, len(validEventCodes))
	copy(out, validEventCodes)
	return out
}
