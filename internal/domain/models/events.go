package models

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

// FareEvent is the transient message exchanged between the driver terminal
// and the passenger displays. Type selects which of the other fields are set:
//
//	FARE_QUOTE     fare, currency, destinationName
//	FARE_CONFIRMED fare, currency, destinationName, ticketId
//	FARE_RESET     nothing
type FareEvent struct {
	Type            types.FareEventType `json:"type"`
	BusID           string              `json:"busId,omitempty"`
	Fare            int64               `json:"fare,omitempty"`
	Currency        string              `json:"currency,omitempty"`
	DestinationName string              `json:"destinationName,omitempty"`
	TicketID        string              `json:"ticketId,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
}

func NewQuoteShown(busID string, fare int64, currency, destinationName string, at time.Time) FareEvent {
	return FareEvent{
		Type:            types.EventQuoteShown,
		BusID:           busID,
		Fare:            fare,
		Currency:        currency,
		DestinationName: destinationName,
		Timestamp:       at,
	}
}

func NewConfirmed(busID string, fare int64, currency, destinationName, ticketID string, at time.Time) FareEvent {
	return FareEvent{
		Type:            types.EventConfirmed,
		BusID:           busID,
		Fare:            fare,
		Currency:        currency,
		DestinationName: destinationName,
		TicketID:        ticketID,
		Timestamp:       at,
	}
}

func NewReset(busID string, at time.Time) FareEvent {
	return FareEvent{
		Type:      types.EventReset,
		BusID:     busID,
		Timestamp: at,
	}
}

// Validate checks that the event carries exactly what its variant needs.
func (e FareEvent) Validate() error {
	switch e.Type {
	case types.EventQuoteShown, types.EventConfirmed:
		if e.Fare < 0 {
			return fmt.Errorf("%w: negative fare", types.ErrInvalidEvent)
		}
		if e.Currency == "" {
			return fmt.Errorf("%w: currency is required", types.ErrInvalidEvent)
		}
		if e.Type == types.EventConfirmed && e.TicketID == "" {
			return fmt.Errorf("%w: ticket id is required", types.ErrInvalidEvent)
		}
		return nil
	case types.EventReset:
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", types.ErrInvalidEvent, e.Type)
	}
}
