package display

import (
	"strconv"
	"strings"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

type Mode string

const (
	ModeIdle             Mode = "IDLE"
	ModeShowingQuote     Mode = "SHOWING_QUOTE"
	ModeShowingConfirmed Mode = "SHOWING_CONFIRMED"
)

// View is what a passenger display shows. Only the fields of Mode are set.
type View struct {
	BusID           string `json:"bus_id"`
	Mode            Mode   `json:"mode"`
	Fare            int64  `json:"fare,omitempty"`
	Currency        string `json:"currency,omitempty"`
	FormattedFare   string `json:"formatted_fare,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
	TicketID        string `json:"ticket_id,omitempty"`
}

// Reduce returns the view after event. Reset always leads to Idle.
func Reduce(v View, e models.FareEvent) View {
	next := View{BusID: v.BusID}

	switch e.Type {
	case types.EventQuoteShown:
		next.Mode = ModeShowingQuote
	case types.EventConfirmed:
		next.Mode = ModeShowingConfirmed
		next.TicketID = e.TicketID
	case types.EventReset:
		next.Mode = ModeIdle
		return next
	default:
		return v
	}

	next.Fare = e.Fare
	next.Currency = e.Currency
	next.FormattedFare = FormatAmount(e.Fare, e.Currency)
	next.DestinationName = e.DestinationName
	return next
}

var currencySymbols = map[string]string{
	types.CurrencyPYG: "₲",
}

// FormatAmount renders an integer amount with dot thousands separators,
// "₲ 20.000" for guaraníes.
func FormatAmount(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	if symbol == "" {
		return sign + b.String()
	}
	return symbol + " " + sign + b.String()
}
