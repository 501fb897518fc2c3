package wrap

import (
	"context"
	"errors"
)

// fieldedError carries the log fields that were set where the error was born,
// so the handler that finally logs it reports the bus, quote and ticket involved.
type fieldedError struct {
	err    error
	logCtx LogCtx
}

func (e *fieldedError) Error() string { return e.err.Error() }

func (e *fieldedError) Unwrap() error { return e.err }

// Error attaches the LogCtx of ctx to err.
// If err already carries fields, the fields of ctx are merged over them.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc := FromContext(ctx)
	var e *fieldedError
	if errors.As(err, &e) {
		base := context.WithValue(context.Background(), LogCtxKey, e.logCtx)
		lc = FromContext(WithLogCtx(base, lc))
	}
	return &fieldedError{err: err, logCtx: lc}
}

// ErrorCtx returns ctx enriched with the fields captured by Error, if err carries any.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *fieldedError
	if errors.As(err, &e) && e != nil {
		return WithLogCtx(ctx, e.logCtx)
	}
	return ctx
}
