// internal/api/websocket.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/render"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Public read-only data; cross-origin pages may open the filter socket.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 5 * time.Minute
)

// filterRequest is one query message from the client.
type filterRequest struct {
	Query string `json:"query"`
}

// filterResponse reorders the client's card list.
type filterResponse struct {
	Type   string        `json:"type"`
	Query  string        `json:"query"`
	Result render.Result `json:"result"`
}

// ProtocolFilterSocket streams live filter results for the protocol gallery.
// The card set is fetched once per connection; each incoming query message is
// answered with the matching order for that snapshot.
func (h *Handlers) ProtocolFilterSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	protocols, err := h.protocols.GetProtocols(c.Request.Context())
	if err != nil {
		h.logger.Warn("protocol filter socket closing, fetch failed", zap.Error(err))
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		conn.WriteJSON(ErrorResponse{Error: "Unable to load protocols"})
		return
	}

	items := make([]render.Item, len(protocols))
	for i, p := range protocols {
		items[i] = render.Item{Index: i, Search: render.ProtocolSearch(p)}
	}

	// Initial full ordering so the client can sync before the first query.
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(filterResponse{Type: "filter", Result: render.Filter(items, "")}); err != nil {
		return
	}

	for {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var req filterRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("protocol filter socket closed", zap.Error(err))
			}
			return
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		resp := filterResponse{Type: "filter", Query: req.Query, Result: render.Filter(items, req.Query)}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
