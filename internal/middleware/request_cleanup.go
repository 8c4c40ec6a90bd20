package middleware

import (
	"io"
	"net/http"
)

// bodies bigger than this are closed without reading the rest
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest reads what the handler left in the request body, so the connection can be reused
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
				_ = r.Body.Close()
			}
		})
	}
}
