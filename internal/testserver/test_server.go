// Package testserver runs the MCP server over a migrated in-memory SQLite
// database for end-to-end tool tests.
package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aceweb/agencyops/internal/app"
	"github.com/aceweb/agencyops/internal/export"
	"github.com/aceweb/agencyops/internal/mcp"
	"github.com/aceweb/agencyops/internal/messaging"
	"github.com/aceweb/agencyops/internal/sqlstore"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestServer is a connected client session plus the graph behind it.
type TestServer struct {
	App     *app.App
	Metrics *mcp.Metrics
	Session *sdkmcp.ClientSession
	HTTP    *httptest.Server // set by NewHTTP only
}

// New serves over in-memory transports without authentication. Exports go
// to a temporary directory.
func New(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	a := newApp(t)
	metrics := mcp.NewMetrics()
	server := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		TransportMode: "stdio",
		Metrics:       metrics,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	session, err := newClient().Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})

	return &TestServer{App: a, Metrics: metrics, Session: session}
}

// NewHTTP serves over streamable HTTP with bearer authentication. token is
// registered for actorID; the session sends sendToken.
func NewHTTP(t *testing.T, token, actorID, sendToken string) (*TestServer, error) {
	t.Helper()
	ctx := context.Background()

	a := newApp(t)
	require.NoError(t, a.APIKeys.Add(ctx, token, actorID, "test"))

	metrics := mcp.NewMetrics()
	server := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Metrics:       metrics,
	})
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return server }, nil)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)

	ts := &TestServer{App: a, Metrics: metrics, HTTP: httpServer}
	session, err := newClient().Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   httpServer.URL,
		HTTPClient: &http.Client{Transport: bearer{token: sendToken, next: http.DefaultTransport}},
	}, nil)
	if err != nil {
		return ts, err
	}
	t.Cleanup(func() { _ = session.Close() })
	ts.Session = session
	return ts, nil
}

// Call invokes a tool and decodes its structured output into out. It returns
// the raw result so callers can inspect tool errors.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := ts.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		data, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return res
}

// ErrorText returns the text of a tool error result.
func ErrorText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() { _ = db.Close() })

	return app.New(db, app.Options{
		Greeter: messaging.Greeter{Agency: messaging.DefaultAgency, CountryCode: messaging.DefaultCountryCode},
		Sink:    export.FileSink{Dir: t.TempDir()},
	}, nil)
}

func newClient() *sdkmcp.Client {
	return sdkmcp.NewClient(&sdkmcp.Implementation{Name: "agencyops-test", Version: "0.0.1"}, nil)
}

type bearer struct {
	token string
	next  http.RoundTripper
}

func (b bearer) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if b.token != "" {
		r.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.next.RoundTrip(r)
}
