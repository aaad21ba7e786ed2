package rendezvous

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickPeer
)

func (a BackpressureAction) String() string {
	switch a {
	case DropFrame:
		return "drop_frame"
	case KickPeer:
		return "kick_peer"
	default:
		return "no_action"
	}
}

// Policy decides what happens to a peer whose send buffer is full.
type Policy interface {
	OnBackpressure(p *Peer) BackpressureAction
}

// SimplePolicy drops signaling frames for a slow peer and kicks it once it
// has been slow too many times in a row.
type SimplePolicy struct {
	MaxDrops int
}

func (sp SimplePolicy) OnBackpressure(p *Peer) BackpressureAction {
	if p.drops.Add(1) > int64(sp.MaxDrops) {
		return KickPeer
	}
	return DropFrame
}
