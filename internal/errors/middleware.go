package errors

import (
	"net/http"
)

// RecoveryMiddleware turns a panic into a 500 Problem Details response.
// onPanic, when set, runs before the response is written. A panic with
// http.ErrAbortHandler is passed on so the server aborts the connection.
func RecoveryMiddleware(handler *ErrorHandler, onPanic func(r *http.Request, recovered interface{})) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				if onPanic != nil {
					onPanic(r, rvr)
				}
				handler.HandlePanic(w, r, rvr)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
