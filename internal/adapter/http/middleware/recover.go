package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
)

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := wrap.WithAction(r.Context(), "panic_recovered")
			m.log.Error(ctx, "handler panicked", fmt.Errorf("%v", rec), "stack", string(debug.Stack()))

			w.Header().Set("Connection", "close")
			errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
		}()

		next.ServeHTTP(w, r)
	})
}
