package terminal

import (
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type State string

const (
	StateIdle                State = "IDLE"
	StateDestinationSelected State = "DESTINATION_SELECTED"
	StateQuoteReady          State = "QUOTE_READY"
	StateConfirming          State = "CONFIRMING"
	StateConfirmed           State = "CONFIRMED"
)

type LocationSource string

const (
	SourceDevice    LocationSource = "device"
	SourceLastKnown LocationSource = "last_known"
	SourceDefault   LocationSource = "default"
)

// Snapshot is a copy of what the driver terminal shows.
type Snapshot struct {
	BusID          string              `json:"bus_id"`
	State          State               `json:"state"`
	Destination    *models.Destination `json:"destination,omitempty"`
	Origin         *models.Coordinate  `json:"origin,omitempty"`
	OriginSource   LocationSource      `json:"origin_source,omitempty"`
	Quote          *models.FareQuote   `json:"quote,omitempty"`
	Ticket         *models.Ticket      `json:"ticket,omitempty"`
	LastError      string              `json:"last_error,omitempty"`
	LocationNotice string              `json:"location_notice,omitempty"`
}
