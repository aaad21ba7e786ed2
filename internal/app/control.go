package app

import (
	"github.com/dkeye/ScreenShare/internal/adapters/input"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
)

// controlOpened binds the session's control channel. The sharer applies
// incoming input and announces its display geometry; the viewer only
// listens for geometry.
func (o *Orchestrator) controlOpened(room domain.RoomID, conn core.DirectConnection, ch core.ControlChannel) {
	s, ok := o.owner(room, conn)
	if !ok {
		_ = ch.Close()
		return
	}
	s.control = ch
	s.logger.Debug().Msg("control channel open")

	if s.role == domain.RoleAnswerer {
		ch.OnMessage(func(data []byte) {
			ev, err := input.Decode(data)
			if err != nil || ev.Type != input.EventGeometry {
				return
			}
			g := *ev.Geometry
			o.post(func() { o.geometryReceived(room, conn, g) })
		})
		return
	}

	if o.opts.Input == nil {
		ch.OnMessage(func([]byte) {})
		s.logger.Info().Msg("no input adapter, remote input ignored")
		return
	}
	ch.OnMessage(input.NewDispatcher(o.opts.Input, room).HandleFrame)

	g, err := o.opts.Input.DisplayGeometry()
	if err != nil {
		s.logger.Warn().Err(err).Msg("display geometry unavailable")
		return
	}
	s.geometry = &g
	data, err := input.Encode(input.GeometryEvent(g))
	if err == nil {
		err = ch.Send(data)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("send display geometry")
	}
}

func (o *Orchestrator) geometryReceived(room domain.RoomID, conn core.DirectConnection, g core.Geometry) {
	s, ok := o.owner(room, conn)
	if !ok {
		return
	}
	s.geometry = &g
	s.logger.Debug().Int("width", g.Width).Int("height", g.Height).Msg("sharer geometry")
}
