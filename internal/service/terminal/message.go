package terminal

import (
	"errors"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

const locationNotice = "Location unavailable. Enable GPS on this device or wait for the bus position to be reported."

// operatorMessage turns an error into the text shown on the terminal.
func operatorMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrLocationUnavailable):
		return locationNotice
	case errors.Is(err, types.ErrDestinationNotFound):
		return "The selected destination no longer exists."
	case errors.Is(err, types.ErrQuoteNotFound):
		return "The quote could not be found. Select the destination again."
	case errors.Is(err, types.ErrNotFound):
		return "Not found."
	case errors.Is(err, types.ErrStoreUnavailable):
		return "The fare service is unreachable. Please try again."
	case errors.Is(err, types.ErrInvalidTransition):
		return "That action is not available right now."
	default:
		return "Something went wrong. Please try again."
	}
}
