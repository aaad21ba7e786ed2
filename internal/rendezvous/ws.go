package rendezvous

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves one peer until it leaves
// or ctx is done.
func (h *Hub) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "rendezvous.ws").Msg("ws upgrade")
		return
	}
	p := newPeer(uuid.NewString(), ws, h.opts.SendBuffer)
	log.Info().Str("module", "rendezvous.ws").Str("conn", p.connID).Str("remote", c.Request.RemoteAddr).Msg("new ws connection")

	go h.writePump(ctx, p)
	go h.readPump(p)
}

func (h *Hub) writePump(ctx context.Context, p *Peer) {
	ticker := time.NewTicker(h.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		p.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = p.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-p.done:
			return
		case data, ok := <-p.send:
			if !ok {
				return
			}
			if err := p.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "rendezvous.ws").Msg("writePump set deadline")
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "rendezvous.ws").Str("conn", p.connID).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(p *Peer) {
	defer func() {
		log.Info().Str("module", "rendezvous.ws").Str("conn", p.connID).Str("identity", string(p.Identity())).Msg("readPump closing")
		h.Unregister(p)
		p.Close()
	}()

	p.conn.SetReadLimit(h.opts.ReadLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "rendezvous.ws").Str("conn", p.connID).Msg("readPump read error")
			}
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		h.handleSignal(p, data)
	}
}

func (h *Hub) handleSignal(p *Peer, data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "rendezvous.ws").Str("conn", p.connID).Msg("bad frame")
		h.sendError(p, "", "bad frame")
		return
	}

	if msg.Kind == protocol.KindRegister {
		if err := msg.From.Validate(); err != nil {
			h.sendError(p, "", "register: "+err.Error())
			return
		}
		h.Register(msg.From, p)
		return
	}

	from := p.Identity()
	if from == "" {
		h.sendError(p, "", "register first")
		return
	}
	// The sender is whoever registered on this connection.
	msg.From = from

	switch msg.Kind {
	case protocol.KindError, protocol.KindPeerDisconnected:
		log.Warn().Str("module", "rendezvous.ws").Str("identity", string(from)).Str("type", string(msg.Kind)).Msg("server-only message from peer, dropped")
		return
	case protocol.KindSessionRequest:
		if !h.AllowRequest(from) {
			log.Warn().Str("module", "rendezvous.ws").Str("identity", string(from)).Msg("session request rate limited")
			h.sendError(p, msg.RoomID, "rate limited")
			return
		}
	}

	if msg.To == "" || msg.To == from {
		h.sendError(p, msg.RoomID, "bad target")
		return
	}
	if !h.Relay(msg) {
		log.Debug().Str("module", "rendezvous.ws").Str("from", string(from)).Str("to", string(msg.To)).Str("type", string(msg.Kind)).Msg("unknown target")
		h.sendError(p, msg.RoomID, "unknown target "+string(msg.To))
	}
}

func (h *Hub) sendError(p *Peer, room domain.RoomID, text string) {
	msg, err := protocol.Error(p.Identity(), room, text)
	if err != nil {
		return
	}
	h.deliver(p, msg)
}

// Peers is the body of GET /api/peers.
type Peers struct {
	Peers []domain.Identity `json:"peers"`
}
