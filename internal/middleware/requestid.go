package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/olegiv/oblog-go/internal/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID ContextKey = "request_id"

// validRequestID limits ids accepted from clients so they are safe to log.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID assigns every request an id, reusing a well-formed X-Request-ID
// from the client. The id is echoed in the response and attached to log
// records together with the request path.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if !validRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, rid)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, rid)
		ctx = logging.With(ctx,
			slog.String("request_id", rid),
			slog.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(contextKeyRequestID).(string)
	return rid
}
