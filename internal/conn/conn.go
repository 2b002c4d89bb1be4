package conn

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tablodb/tablo/internal/engine"
	"github.com/tablodb/tablo/pkg"
)

type WsRequest struct {
	Action RequestAction `json:"action"`
	ReqId  int           `json:"__tablo_client_req_id__"` // used in tablo clients
}

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades each request to a websocket and serves the
// request/response loop against the shared engine.
func Handler(e *engine.Engine, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("websocket upgrade failed", "err", err)
			return
		}
		defer ws.Close()

		remote := ws.RemoteAddr().String()
		log.Debug("connection opened", "remote", remote)
		defer log.Debug("connection closed", "remote", remote)

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Error("reading message", "remote", remote, "err", err)
				}
				return
			}

			var req WsRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				log.Error("parsing request", "remote", remote, "err", err)
				continue
			}

			res := ActionHandler(e, req.Action, raw)
			res.ReqId = req.ReqId

			if err := ws.WriteJSON(res); err != nil {
				log.Error("writing response", "remote", remote, "err", err)
				return
			}

			if !req.Action.IsReadOnly() && res.Status < http.StatusBadRequest {
				pkg.LockWrap(e, func() {
					e.LastChange = time.Now()
				})
			}
		}
	})
}
