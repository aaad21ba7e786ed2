package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadServer_DefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("SCREENSHARE_PORT", "9090")
	t.Setenv("SCREENSHARE_REQUEST_BURST", "9")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Port != 9090 || cfg.RequestBurst != 9 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Mode != "release" || cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadPeer_FlagsOverEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("SCREENSHARE_IDENTITY", "from-env")
	t.Setenv("SCREENSHARE_RECOVERY_DELAY", "500ms")

	flags := pflag.NewFlagSet("peer", pflag.ContinueOnError)
	flags.String("identity", "", "")
	flags.Bool("no-input", false, "")
	if err := flags.Parse([]string{"--identity", "alice", "--no-input"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPeer(flags)
	if err != nil {
		t.Fatalf("LoadPeer: %v", err)
	}
	if cfg.Identity != "alice" {
		t.Fatalf("identity = %q, want the flag value", cfg.Identity)
	}
	if cfg.RecoveryDelay != 500*time.Millisecond {
		t.Fatalf("recovery delay = %s", cfg.RecoveryDelay)
	}
	if cfg.InputEnabled {
		t.Fatal("--no-input ignored")
	}
	if cfg.MaxReconnectAttempts != 3 || cfg.MaxPendingCandidates != 64 || cfg.CaptureRTPAddr != "127.0.0.1:5004" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("ice servers = %+v", cfg.ICEServers)
	}
}

func TestLoadPeer_MediaKnobs(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := LoadPeer(nil)
	if err != nil {
		t.Fatalf("LoadPeer: %v", err)
	}
	if cfg.PLIInterval != 3*time.Second || cfg.RTCLogLevel != "warn" || cfg.IncludeLoopback {
		t.Fatalf("media defaults not applied: %+v", cfg)
	}
	if cfg.NegotiationTimeout != 10*time.Second {
		t.Fatalf("negotiation timeout = %s", cfg.NegotiationTimeout)
	}

	t.Setenv("SCREENSHARE_PLI_INTERVAL", "1s")
	t.Setenv("SCREENSHARE_RTC_LOG_LEVEL", "debug")
	t.Setenv("SCREENSHARE_NEGOTIATION_TIMEOUT", "4s")

	flags := pflag.NewFlagSet("peer", pflag.ContinueOnError)
	flags.Bool("include-loopback", false, "")
	if err := flags.Parse([]string{"--include-loopback"}); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadPeer(flags)
	if err != nil {
		t.Fatalf("LoadPeer: %v", err)
	}
	if cfg.PLIInterval != time.Second || cfg.RTCLogLevel != "debug" || cfg.NegotiationTimeout != 4*time.Second {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
	if !cfg.IncludeLoopback {
		t.Fatal("--include-loopback ignored")
	}
}
