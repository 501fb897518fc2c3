package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		RequestID string
		BusID     string
		DriverID  string
		QuoteID   string
		TicketID  string
	}

	// logCtxKeyStruct is an unexported type for context keys defined in this package.
	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx stored in ctx, or an empty one.
func FromContext(ctx context.Context) LogCtx {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		return lc
	}
	return LogCtx{}
}

// WithLogCtx returns a new context with the provided LogCtx merged over the existing one
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	lc, ok := ctx.Value(LogCtxKey).(LogCtx)
	if !ok {
		return context.WithValue(ctx, LogCtxKey, newLc)
	}

	if newLc.Action == "" {
		newLc.Action = lc.Action
	}
	if newLc.RequestID == "" {
		newLc.RequestID = lc.RequestID
	}
	if newLc.BusID == "" {
		newLc.BusID = lc.BusID
	}
	if newLc.DriverID == "" {
		newLc.DriverID = lc.DriverID
	}
	if newLc.QuoteID == "" {
		newLc.QuoteID = lc.QuoteID
	}
	if newLc.TicketID == "" {
		newLc.TicketID = lc.TicketID
	}
	return context.WithValue(ctx, LogCtxKey, newLc)
}

func update(ctx context.Context, fn func(lc *LogCtx)) context.Context {
	lc := FromContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.Action = action })
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.RequestID = requestID })
}

// WithBusID adds or updates the BusID in the LogCtx within the context
func WithBusID(ctx context.Context, busID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.BusID = busID })
}

// WithDriverID adds or updates the DriverID in the LogCtx within the context
func WithDriverID(ctx context.Context, driverID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.DriverID = driverID })
}

// WithQuoteID adds or updates the QuoteID in the LogCtx within the context
func WithQuoteID(ctx context.Context, quoteID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.QuoteID = quoteID })
}

// WithTicketID adds or updates the TicketID in the LogCtx within the context
func WithTicketID(ctx context.Context, ticketID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.TicketID = ticketID })
}

// GetRequestID returns the request id carried by ctx, if any.
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx).RequestID
}
