package domain

import "errors"

// State is the lifecycle position of a session.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateOfferSent
	StateOfferReceived
	StateAnswering
	StateConnecting
	StateConnected
	StateRecovering
	StateClosed
	StateFailed
)

var stateNames = [...]string{
	StateIdle:          "IDLE",
	StateRequesting:    "REQUESTING",
	StateOfferSent:     "OFFER_SENT",
	StateOfferReceived: "OFFER_RECEIVED",
	StateAnswering:     "ANSWERING",
	StateConnecting:    "CONNECTING",
	StateConnected:     "CONNECTED",
	StateRecovering:    "RECOVERING",
	StateClosed:        "CLOSED",
	StateFailed:        "FAILED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is allowed.
func (s State) IsTerminal() bool {
	return s == StateClosed || s == StateFailed
}

// HoldsConnection reports whether a session in this state may own a direct
// connection handle. An offerer creates its connection in REQUESTING once
// the capture source is acquired; terminal states never hold one.
func (s State) HoldsConnection() bool {
	switch s {
	case StateRequesting, StateOfferSent, StateOfferReceived, StateAnswering,
		StateConnecting, StateConnected, StateRecovering:
		return true
	}
	return false
}

// transitions lists the allowed non-terminal edges. Any non-terminal state
// may additionally move to CLOSED. FAILED is reachable from RECOVERING, from
// IDLE and the negotiation states when a step fails or times out, and from
// CONNECTED when the direct connection dies for good.
var transitions = map[State][]State{
	StateIdle:          {StateRequesting, StateOfferReceived, StateFailed},
	StateRequesting:    {StateOfferSent, StateFailed},
	StateOfferSent:     {StateConnecting, StateFailed},
	StateOfferReceived: {StateAnswering, StateFailed},
	StateAnswering:     {StateConnecting, StateFailed},
	StateConnecting:    {StateConnected, StateRecovering, StateFailed},
	StateConnected:     {StateRecovering, StateFailed},
	StateRecovering:    {StateConnecting, StateFailed},
}

var ErrInvalidTransition = errors.New("invalid state transition")

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StateClosed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
