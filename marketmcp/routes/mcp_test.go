package routes

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectMCP(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	server := NewMCPServer(newTestController())
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestMCP_ListsAllTools(t *testing.T) {
	cs := connectMCP(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.ElementsMatch(t, []string{
		"fetch_url", "extract_main_text", "extract_evidence_quotes", "save_sources", "save_report",
	}, names)
}

func TestMCP_EvidenceQuotesWrapped(t *testing.T) {
	cs := connectMCP(t)
	text, isErr := callText(t, cs, "extract_evidence_quotes", map[string]any{
		"text":   strings.Repeat("A", 1000),
		"claims": []string{"AAA", "notfound"},
	})
	require.False(t, isErr, text)

	var out struct {
		Excerpts []struct {
			Claim    string `json:"claim"`
			Excerpt  string `json:"excerpt"`
			Position string `json:"position"`
		} `json:"excerpts"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Excerpts, 2)
	assert.True(t, strings.HasPrefix(out.Excerpts[0].Position, "chars "))
	assert.LessOrEqual(t, len(out.Excerpts[1].Excerpt), 500)
}

func TestMCP_SaveReportAndToolError(t *testing.T) {
	cs := connectMCP(t)
	out := filepath.Join(t.TempDir(), "report.md")

	text, isErr := callText(t, cs, "save_report", map[string]any{"markdown_text": "# Q3", "output_path": out})
	require.False(t, isErr, text)
	assert.JSONEq(t, `{"path":"`+out+`"}`, text)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Q3", string(data))

	text, isErr = callText(t, cs, "save_sources", map[string]any{
		"records":     []map[string]any{{"fetched_at": "2024-01-01T00:00:00Z"}},
		"output_path": filepath.Join(t.TempDir(), "s.json"),
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "records[0].url")
}
