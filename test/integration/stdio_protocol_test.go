package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestStdioProtocolCompliance drives a built binary through the SDK client
// over stdio. Build with `go build -o bin/agencyops ./cmd/agencyops` or set
// AGENCYOPS_BIN.
func TestStdioProtocolCompliance(t *testing.T) {
	binaryPath := os.Getenv("AGENCYOPS_BIN")
	if binaryPath == "" {
		binaryPath = "../../bin/agencyops"
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skip("server binary not found; build it first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, "serve", "--transport", "stdio")
	cmd.Env = append(os.Environ(),
		"AGENCYOPS_CONFIG_PATH=",
		"AGENCYOPS_DB_DRIVER=sqlite",
		"AGENCYOPS_DB_DSN="+filepath.Join(t.TempDir(), "agency.db"),
		"AGENCYOPS_EXPORT_DIR="+t.TempDir(),
		"AGENCYOPS_LOG_LEVEL=error",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err, "failed to connect to server")
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initResult := session.InitializeResult()
		require.NotNil(t, initResult)
		require.NotNil(t, initResult.ServerInfo)
		require.Equal(t, "agencyops", initResult.ServerInfo.Name)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		names := make(map[string]bool)
		for _, tool := range tools.Tools {
			names[tool.Name] = true
			require.NotNil(t, tool.InputSchema, "tool %s has no input schema", tool.Name)
		}
		for _, want := range []string{"create_client", "create_project", "advance_project", "toggle_task", "get_dashboard"} {
			require.True(t, names[want], "missing tool %s", want)
		}
	})

	t.Run("ListResources", func(t *testing.T) {
		res, err := session.ListResources(ctx, nil)
		require.NoError(t, err)
		require.NotEmpty(t, res.Resources)

		read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: res.Resources[0].URI})
		require.NoError(t, err)
		require.NotEmpty(t, read.Contents)
	})

	t.Run("CreateAndDashboard", func(t *testing.T) {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "create_client",
			Arguments: map[string]any{"name": "Padaria Sol"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)

		res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "get_dashboard", Arguments: map[string]any{}})
		require.NoError(t, err)
		require.False(t, res.IsError)
		dash, ok := res.StructuredContent.(map[string]any)
		require.True(t, ok)
		require.EqualValues(t, 1, dash["total_clients"])
	})
}
