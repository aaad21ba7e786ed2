// Package protocol defines the signaling messages exchanged through the
// rendezvous service. Every message is a JSON object; the payload shape
// depends on the kind.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Kind is the closed set of signaling message kinds.
type Kind string

const (
	KindRegister         Kind = "register"
	KindSessionRequest   Kind = "session_request"
	KindOffer            Kind = "offer"
	KindAnswer           Kind = "answer"
	KindICECandidate     Kind = "ice_candidate"
	KindSessionStopped   Kind = "session_stopped"
	KindPeerDisconnected Kind = "peer_disconnected"

	// KindError is only sent by the rendezvous server.
	KindError Kind = "error"
)

var kinds = map[Kind]struct{}{
	KindRegister:         {},
	KindSessionRequest:   {},
	KindOffer:            {},
	KindAnswer:           {},
	KindICECandidate:     {},
	KindSessionStopped:   {},
	KindPeerDisconnected: {},
	KindError:            {},
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Message is the envelope of every signaling message.
type Message struct {
	Kind    Kind            `json:"type"`
	From    domain.Identity `json:"from,omitempty"`
	To      domain.Identity `json:"to,omitempty"`
	RoomID  domain.RoomID   `json:"room_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type DescriptionPayload struct {
	SDP string `json:"sdp"`
}

type CandidatePayload struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type PeerDisconnectedPayload struct {
	Peer domain.Identity `json:"peer"`
}

type StoppedPayload struct {
	Reason string `json:"reason,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// New builds a message with the payload marshalled in place.
func New(kind Kind, from, to domain.Identity, room domain.RoomID, payload any) (Message, error) {
	msg := Message{Kind: kind, From: from, To: to, RoomID: room}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("marshal %s payload: %w", kind, err)
		}
		msg.Payload = raw
	}
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", m.Kind)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%s: bad payload: %w", m.Kind, err)
	}
	return nil
}

// Parse decodes one wire frame and rejects unknown kinds.
func Parse(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("bad json: %w", err)
	}
	if !msg.Kind.Valid() {
		return Message{}, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	return msg, nil
}

func Register(from domain.Identity) Message {
	return Message{Kind: KindRegister, From: from}
}

func SessionRequest(from, to domain.Identity, room domain.RoomID) Message {
	return Message{Kind: KindSessionRequest, From: from, To: to, RoomID: room}
}

func Offer(from, to domain.Identity, room domain.RoomID, sdp string) (Message, error) {
	return New(KindOffer, from, to, room, DescriptionPayload{SDP: sdp})
}

func Answer(from, to domain.Identity, room domain.RoomID, sdp string) (Message, error) {
	return New(KindAnswer, from, to, room, DescriptionPayload{SDP: sdp})
}

func Candidate(from, to domain.Identity, room domain.RoomID, c webrtc.ICECandidateInit) (Message, error) {
	return New(KindICECandidate, from, to, room, CandidatePayload{Candidate: c})
}

func Stopped(from, to domain.Identity, room domain.RoomID, reason string) (Message, error) {
	return New(KindSessionStopped, from, to, room, StoppedPayload{Reason: reason})
}

func PeerDisconnected(peer domain.Identity) (Message, error) {
	return New(KindPeerDisconnected, "", "", "", PeerDisconnectedPayload{Peer: peer})
}

// Error reports a failure to to. room names the session the rejected
// message belonged to, if any.
func Error(to domain.Identity, room domain.RoomID, text string) (Message, error) {
	return New(KindError, "", to, room, ErrorPayload{Error: text})
}
