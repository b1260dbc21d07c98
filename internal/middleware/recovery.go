package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// Recovery returns a middleware that recovers from panics escaping
// the handler chain. Panics inside routed handlers are already
// converted to responses by the compiled route table; this is the
// outer net for everything else.
//
// Callers identify the returned middleware by its code pointer, which
// requires every call site to share the single closure body below;
// inlining would duplicate it per call site.
//
//go:noinline
func Recovery(logger observability.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						observability.String("path", r.URL.Path),
						observability.String("method", r.Method),
						observability.Any("error", err),
						observability.String("stack", string(debug.Stack())),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = io.WriteString(w, `{"error":"internal server error"}`)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
