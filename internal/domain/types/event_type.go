package types

// FareEventType tags the variants of the fare lifecycle event.
type FareEventType string

const (
	EventQuoteShown FareEventType = "FARE_QUOTE"
	EventConfirmed  FareEventType = "FARE_CONFIRMED"
	EventReset      FareEventType = "FARE_RESET"
)

func (t FareEventType) Valid() bool {
	switch t {
	case EventQuoteShown, EventConfirmed, EventReset:
		return true
	}
	return false
}
