package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/ScreenShare/internal/adapters/rtc"
	"github.com/dkeye/ScreenShare/internal/adapters/signal"
	"github.com/dkeye/ScreenShare/internal/app"
	"github.com/dkeye/ScreenShare/internal/config"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/logging"
)

// loadConfig resolves the peer config for cmd and applies its log level.
func loadConfig(cmd *cobra.Command) (*config.Peer, error) {
	// Persistent flags are merged into Flags() by the time RunE runs.
	cfg, err := config.LoadPeer(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}

func iceServers(cfg *config.Peer) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))
	for _, s := range cfg.ICEServers {
		out = append(out, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}
	return out
}

// collaborators are the capability adapters a command plugs in.
type collaborators struct {
	capture core.CaptureAdapter
	input   core.InputAdapter
	render  core.RenderSink
}

// outcome collects terminal session events for a command to wait on.
type outcome struct {
	connected chan core.SessionInfo
	ended     chan error
}

func newOutcome() *outcome {
	return &outcome{
		connected: make(chan core.SessionInfo, 16),
		ended:     make(chan error, 16),
	}
}

func (o *outcome) callbacks() core.Callbacks {
	return core.Callbacks{
		OnConnected: func(info core.SessionInfo) {
			log.Info().Str("room_id", string(info.RoomID)).Str("peer", string(info.Remote)).Msg("session connected")
			select {
			case o.connected <- info:
			default:
			}
		},
		OnFailed: func(info core.SessionInfo, reason string) {
			select {
			case o.ended <- fmt.Errorf("session with %s failed: %s", info.Remote, reason):
			default:
			}
		},
		OnClosed: func(info core.SessionInfo, reason string) {
			log.Info().Str("room_id", string(info.RoomID)).Str("peer", string(info.Remote)).Str("reason", reason).Msg("session closed")
			select {
			case o.ended <- nil:
			default:
			}
		},
	}
}

// peerRuntime is one local identity: its rendezvous link and orchestrator.
type peerRuntime struct {
	cfg  *config.Peer
	mux  *signal.Multiplexer
	orch *app.Orchestrator
	done chan error
}

func newRuntime(cfg *config.Peer, c collaborators, cb core.Callbacks) (*peerRuntime, error) {
	identity := domain.Identity(cfg.Identity)
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("--identity: %w", err)
	}

	rtcLevel, err := zerolog.ParseLevel(cfg.RTCLogLevel)
	if err != nil || cfg.RTCLogLevel == "" {
		rtcLevel = zerolog.WarnLevel
	}
	factory, err := rtc.NewFactory(rtc.Config{
		ICEServers:      iceServers(cfg),
		IncludeLoopback: cfg.IncludeLoopback,
		PLIInterval:     cfg.PLIInterval,
		LogLevel:        rtcLevel,
	})
	if err != nil {
		return nil, err
	}
	mux := signal.NewMultiplexer(signal.Options{URL: cfg.SignalURL})

	orch, err := app.New(app.Options{
		Local:                identity,
		Signaler:             mux,
		Connections:          factory,
		Capture:              c.capture,
		Input:                c.input,
		Render:               c.render,
		Callbacks:            cb,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		RecoveryDelay:        cfg.RecoveryDelay,
		RecoveryTimeout:      cfg.RecoveryTimeout,
		NegotiationTimeout:   cfg.NegotiationTimeout,
		CandidateTTL:         cfg.CandidateTTL,
		MaxPendingCandidates: cfg.MaxPendingCandidates,
		OfferCacheSize:       cfg.OfferCacheSize,
	})
	if err != nil {
		return nil, err
	}
	return &peerRuntime{cfg: cfg, mux: mux, orch: orch, done: make(chan error, 1)}, nil
}

// start runs the orchestrator and then connects, so no inbound message
// can arrive before its listeners exist.
func (r *peerRuntime) start(ctx context.Context) error {
	go func() { r.done <- r.orch.Run(ctx) }()
	if _, err := r.mux.Connect(ctx, domain.Identity(r.cfg.Identity)); err != nil {
		return err
	}
	return nil
}

// stop waits for the orchestrator to close its sessions, then drops the link.
func (r *peerRuntime) stop() {
	select {
	case err := <-r.done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("orchestrator")
		}
	case <-time.After(5 * time.Second):
		log.Warn().Msg("orchestrator did not stop in time")
	}
	r.mux.Disconnect()
}
