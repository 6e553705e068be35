package transport

import (
	"net/http"
)

// Routes are the handlers served in HTTP mode. Metrics may be nil.
type Routes struct {
	MCP     http.Handler
	Metrics http.Handler
}

// NewRouter mounts /mcp, /health and, when present, /metrics. The MCP route
// authenticates inside the MCP server; auth, when non-nil, guards /metrics.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/mcp", routes.MCP)
	mux.Handle("/mcp/", routes.MCP)
	mux.HandleFunc("GET /health", handleHealth)

	if routes.Metrics != nil {
		metrics := routes.Metrics
		if auth != nil {
			metrics = auth(metrics)
		}
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
