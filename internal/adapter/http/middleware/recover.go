package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

// Recover turns a handler panic into a 500 that names the request id, so a
// driver report can be matched with the logged stack.
func (app *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			ctx := wrap.WithAction(r.Context(), "panic_recovered")
			app.log.Error(ctx, "handler panicked", fmt.Errorf("%v", p), "route", r.Pattern, "stack", string(debug.Stack()))

			w.Header().Set("Connection", "close")
			msg := "the server encountered a problem and could not process your request"
			if id := wrap.GetRequestID(ctx); id != "" {
				msg += " (request " + id + ")"
			}
			reject(w, http.StatusInternalServerError, msg)
		}()

		next.ServeHTTP(w, r)
	})
}
