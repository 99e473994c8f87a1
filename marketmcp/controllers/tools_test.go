package controllers

import (
	"context"
	"encoding/json"
	"marketmcp/marketmcp/agents/actions"
	"marketmcp/marketmcp/utils/types"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController() *ToolsController {
	return NewToolsController(actions.NewToolActions(actions.Deps{}))
}

func TestHandle_ListTools(t *testing.T) {
	resp := newController().Handle(context.Background(), []byte(`{"action":"list_tools"}`))
	require.True(t, resp.OK)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"result":{"tools":["fetch_url","extract_main_text","extract_evidence_quotes","save_sources","save_report"]}}`, string(b))
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown action", `{"action":"dance"}`, "unknown action"},
		{"missing action", `{}`, "unknown action"},
		{"unknown tool", `{"action":"invoke","tool":"nope","params":{}}`, "Unknown tool: nope"},
		{"bad json", `{"action":`, "invalid request"},
		{"not an object", `[1,2]`, "invalid request"},
	}

	c := newController()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.Handle(context.Background(), []byte(tt.line))
			assert.False(t, resp.OK)
			assert.Nil(t, resp.Result)
			assert.Contains(t, resp.Error, tt.want)

			b, err := json.Marshal(resp)
			require.NoError(t, err)
			assert.NotContains(t, string(b), `"result"`)
		})
	}
}

func TestHandle_InvokeEvidence(t *testing.T) {
	line := `{"action":"invoke","tool":"extract_evidence_quotes","params":{"text":"Market grew 5%","claims":["grew"]}}`
	resp := newController().Handle(context.Background(), []byte(line))
	require.True(t, resp.OK, resp.Error)

	excerpts := resp.Result.([]types.EvidenceExcerpt)
	require.Len(t, excerpts, 1)
	assert.Equal(t, "chars 0-14", excerpts[0].Position)
}

func TestRun_RecoversPanic(t *testing.T) {
	c := newController()
	err := c.Run(context.Background(), "boom", func(ctx context.Context) error {
		panic("kaboom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")

	// lock released after the panic
	resp := c.Handle(context.Background(), []byte(`{"action":"invoke","tool":"nope"}`))
	assert.False(t, resp.OK)
}

func TestToolsWebSocket(t *testing.T) {
	c := newController()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		c.ToolsWebSocket(r.Context(), conn)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"action":"list_tools"}`)))
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fetch_url"`)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"action":"x"}`)))
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"error":"unknown action"}`, string(data))
}
