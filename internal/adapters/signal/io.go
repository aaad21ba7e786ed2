package signal

import (
	"time"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (l *Link) writePump(c *wsConn) {
	ticker := time.NewTicker(l.mux.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-l.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(l.mux.opts.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(l.mux.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal.mux").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal.mux").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(l.mux.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal.mux").Msg("writePump ping error")
				return
			}
		}
	}
}

func (l *Link) readPump(c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("readPump closing")
		c.Close()
	}()

	c.conn.SetReadLimit(l.mux.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(l.mux.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(l.mux.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if l.ctx.Err() == nil {
				log.Warn().Err(err).Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(l.mux.opts.PongWait))
		msg, err := protocol.Parse(data)
		if err != nil {
			log.Warn().Err(err).Str("module", "signal.mux").Msg("dropping bad frame")
			continue
		}
		if msg.Kind == protocol.KindError {
			var p protocol.ErrorPayload
			_ = msg.Decode(&p)
			log.Warn().Str("module", "signal.mux").Str("error", p.Error).Msg("rendezvous error")
		}
		l.mux.dispatch(msg)
	}
}

// announce queues the REGISTER frame. It runs at most once per socket and
// before the socket is published, so it is always the first frame sent.
func (l *Link) announce(c *wsConn) {
	c.announce.Do(func() {
		msg := protocol.Register(l.identity)
		data, err := encode(msg)
		if err != nil {
			log.Error().Err(err).Str("module", "signal.mux").Msg("encode register")
			return
		}
		if err := c.TrySend(data); err != nil {
			log.Error().Err(err).Str("module", "signal.mux").Msg("queue register")
			return
		}
		log.Info().Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("identity announced")
	})
}

func identityOf(msg protocol.Message, fallback domain.Identity) domain.Identity {
	if msg.From != "" {
		return msg.From
	}
	return fallback
}
