package conn_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/tablodb/tablo/internal/conn"
	"gotest.tools/assert"
)

func TestWsRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	srv := httptest.NewServer(conn.Handler(e, slog.New(slog.DiscardHandler)))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	assert.NilError(t, err)
	defer ws.Close()

	err = ws.WriteJSON(map[string]any{
		"action":                  "create",
		"table":                   "users",
		"data":                    map[string]any{"email": "a@x.com"},
		"__tablo_client_req_id__": 7,
	})
	assert.NilError(t, err)

	var res conn.Response
	assert.NilError(t, ws.ReadJSON(&res))
	assert.Equal(t, res.Status, http.StatusCreated)
	assert.Equal(t, res.ReqId, 7)

	// the record is now visible to a second request on the same socket
	err = ws.WriteJSON(map[string]any{"action": "list", "table": "users"})
	assert.NilError(t, err)
	assert.NilError(t, ws.ReadJSON(&res))
	assert.Equal(t, res.Status, http.StatusOK)
	rows, ok := res.Data.([]any)
	assert.Assert(t, ok, "expected a record list, got %T", res.Data)
	assert.Equal(t, len(rows), 1)
}
