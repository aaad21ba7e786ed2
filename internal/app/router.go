package app

import (
	"fmt"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// handler receives routed, decoded messages. Offer handling reports
// whether the offer was applied so the router can remember it.
type handler interface {
	sessionRequested(from domain.Identity, room domain.RoomID)
	offerReceived(s *Session, offer webrtc.SessionDescription) bool
	answerReceived(s *Session, answer webrtc.SessionDescription)
	candidateReceived(s *Session, c webrtc.ICECandidateInit)
	stopReceived(s *Session, reason string)
	peerDisconnected(peer domain.Identity)
	errorReceived(s *Session, text string)
}

// offerKey identifies one applied offer. A restart offer carries fresh
// ICE credentials and therefore a different key.
type offerKey struct {
	room   domain.RoomID
	target domain.Identity
	ufrag  string
}

// Router dispatches inbound messages to the session owning their room.
// Unroutable messages are logged and dropped; Route never fails.
type Router struct {
	local    domain.Identity
	registry *Registry
	h        handler
	offers   *lru.Cache[offerKey, struct{}]
}

func NewRouter(local domain.Identity, registry *Registry, h handler, offerCacheSize int) (*Router, error) {
	cache, err := lru.New[offerKey, struct{}](offerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("offer cache: %w", err)
	}
	return &Router{local: local, registry: registry, h: h, offers: cache}, nil
}

func (r *Router) Route(msg protocol.Message) {
	logger := log.With().
		Str("module", "app.router").
		Str("type", string(msg.Kind)).
		Str("from", string(msg.From)).
		Str("room_id", string(msg.RoomID)).
		Logger()

	if msg.To != "" && msg.To != r.local {
		logger.Debug().Str("to", string(msg.To)).Msg("not addressed to us, dropped")
		return
	}

	switch msg.Kind {
	case protocol.KindSessionRequest:
		if msg.RoomID == "" || msg.From == "" || msg.From == r.local {
			logger.Debug().Msg("malformed session request, dropped")
			return
		}
		if _, ok := r.registry.Get(msg.RoomID); ok {
			logger.Debug().Msg("duplicate session request, dropped")
			return
		}
		r.h.sessionRequested(msg.From, msg.RoomID)

	case protocol.KindPeerDisconnected:
		var p protocol.PeerDisconnectedPayload
		if err := msg.Decode(&p); err != nil || p.Peer == "" {
			logger.Warn().Err(err).Msg("bad peer_disconnected, dropped")
			return
		}
		r.h.peerDisconnected(p.Peer)

	case protocol.KindOffer:
		s, ok := r.lookup(msg)
		if !ok {
			return
		}
		var p protocol.DescriptionPayload
		if err := msg.Decode(&p); err != nil {
			logger.Warn().Err(err).Msg("bad offer, dropped")
			return
		}
		key := offerKey{room: msg.RoomID, target: r.local, ufrag: iceUfrag(p.SDP)}
		if r.offers.Contains(key) {
			logger.Debug().Str("ufrag", key.ufrag).Msg("offer already applied, ignored")
			return
		}
		if r.h.offerReceived(s, webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: p.SDP}) {
			r.offers.Add(key, struct{}{})
		}

	case protocol.KindAnswer:
		s, ok := r.lookup(msg)
		if !ok {
			return
		}
		var p protocol.DescriptionPayload
		if err := msg.Decode(&p); err != nil {
			logger.Warn().Err(err).Msg("bad answer, dropped")
			return
		}
		r.h.answerReceived(s, webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: p.SDP})

	case protocol.KindICECandidate:
		s, ok := r.lookup(msg)
		if !ok {
			return
		}
		var p protocol.CandidatePayload
		if err := msg.Decode(&p); err != nil {
			logger.Warn().Err(err).Msg("bad candidate, dropped")
			return
		}
		r.h.candidateReceived(s, p.Candidate)

	case protocol.KindSessionStopped:
		s, ok := r.lookup(msg)
		if !ok {
			return
		}
		var p protocol.StoppedPayload
		_ = msg.Decode(&p)
		r.h.stopReceived(s, p.Reason)

	case protocol.KindError:
		// Rendezvous errors come from the server, not the session peer.
		var p protocol.ErrorPayload
		_ = msg.Decode(&p)
		if msg.RoomID == "" {
			logger.Debug().Str("error", p.Error).Msg("rendezvous error without room, dropped")
			return
		}
		s, ok := r.registry.Get(msg.RoomID)
		if !ok {
			logger.Debug().Str("error", p.Error).Msg("rendezvous error for unknown room, dropped")
			return
		}
		r.h.errorReceived(s, p.Error)

	default:
		logger.Debug().Msg("not routable, dropped")
	}
}

// lookup finds the session owning msg. A room id is authoritative; the
// (local, from) pair is only a fallback for messages without one. The
// sender must be the session's peer.
func (r *Router) lookup(msg protocol.Message) (*Session, bool) {
	var (
		s  *Session
		ok bool
	)
	if msg.RoomID != "" {
		s, ok = r.registry.Get(msg.RoomID)
	} else {
		s, ok = r.registry.ByPair(domain.Pair{Local: r.local, Remote: msg.From})
	}
	if !ok {
		log.Debug().Str("module", "app.router").Str("type", string(msg.Kind)).Str("from", string(msg.From)).Str("room_id", string(msg.RoomID)).Msg("no session for message, dropped")
		return nil, false
	}
	if s.remote != msg.From {
		log.Warn().Str("module", "app.router").Str("type", string(msg.Kind)).Str("from", string(msg.From)).Str("room_id", string(msg.RoomID)).Str("peer", string(s.remote)).Msg("sender is not the session peer, dropped")
		return nil, false
	}
	return s, true
}

// iceUfrag returns the first ice-ufrag found in raw, session level first.
func iceUfrag(raw string) string {
	var desc sdp.SessionDescription
	if err := desc.Unmarshal([]byte(raw)); err != nil {
		return ""
	}
	if v, ok := desc.Attribute("ice-ufrag"); ok {
		return v
	}
	for _, md := range desc.MediaDescriptions {
		if v, ok := md.Attribute("ice-ufrag"); ok {
			return v
		}
	}
	return ""
}
