package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SCREENSHARE"

// Server configures the rendezvous server.
type Server struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	RequestRate  float64       `mapstructure:"request_rate"`
	RequestBurst int           `mapstructure:"request_burst"`
	LogLevel     string        `mapstructure:"log_level"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// Peer configures the sharing/viewing client.
type Peer struct {
	SignalURL            string        `mapstructure:"signal_url"`
	Identity             string        `mapstructure:"identity"`
	ICEServers           []ICEServer   `mapstructure:"ice_servers"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts"`
	RecoveryDelay        time.Duration `mapstructure:"recovery_delay"`
	RecoveryTimeout      time.Duration `mapstructure:"recovery_timeout"`
	NegotiationTimeout   time.Duration `mapstructure:"negotiation_timeout"`
	CandidateTTL         time.Duration `mapstructure:"candidate_ttl"`
	MaxPendingCandidates int           `mapstructure:"max_pending_candidates"`
	OfferCacheSize       int           `mapstructure:"offer_cache_size"`
	InputEnabled         bool          `mapstructure:"input_enabled"`
	CaptureRTPAddr       string        `mapstructure:"capture_rtp_addr"`
	Display              int           `mapstructure:"display"`
	PLIInterval          time.Duration `mapstructure:"pli_interval"`
	IncludeLoopback      bool          `mapstructure:"include_loopback"`
	RTCLogLevel          string        `mapstructure:"rtc_log_level"`
	LogLevel             string        `mapstructure:"log_level"`
}

// newViper reads config/<name>.<CONFIG_ENV>.yaml when present and lets
// SCREENSHARE_* environment variables override any key.
func newViper(name string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/%s.%s.yaml", name, env)
	v.SetConfigFile(fileName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func read(v *viper.Viper, out any) error {
	if err := v.ReadInConfig(); err != nil {
		log.Debug().Str("module", "config").Str("file", v.ConfigFileUsed()).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", v.ConfigFileUsed()).Msg("loaded config")
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func LoadServer() (*Server, error) {
	v := newViper("server")
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("request_rate", 1.0)
	v.SetDefault("request_burst", 5)
	v.SetDefault("log_level", "info")

	var cfg Server
	if err := read(v, &cfg); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("server config")
	return &cfg, nil
}

// peerFlags maps command line flags onto config keys.
var peerFlags = map[string]string{
	"signal-url":       "signal_url",
	"identity":         "identity",
	"display":          "display",
	"capture":          "capture_rtp_addr",
	"no-input":         "input_disabled",
	"include-loopback": "include_loopback",
	"log-level":        "log_level",
}

// LoadPeer resolves the peer config: flags over environment over file over
// defaults. flags may be nil.
func LoadPeer(flags *pflag.FlagSet) (*Peer, error) {
	v := newViper("peer")
	v.SetDefault("signal_url", "ws://127.0.0.1:8080/api/ws/signal")
	v.SetDefault("identity", "")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("max_reconnect_attempts", 3)
	v.SetDefault("recovery_delay", "2s")
	v.SetDefault("recovery_timeout", "10s")
	v.SetDefault("negotiation_timeout", "10s")
	v.SetDefault("candidate_ttl", "30s")
	v.SetDefault("max_pending_candidates", 64)
	v.SetDefault("offer_cache_size", 1024)
	v.SetDefault("input_enabled", true)
	v.SetDefault("input_disabled", false)
	v.SetDefault("capture_rtp_addr", "127.0.0.1:5004")
	v.SetDefault("display", 0)
	v.SetDefault("pli_interval", "3s")
	v.SetDefault("include_loopback", false)
	v.SetDefault("rtc_log_level", "warn")
	v.SetDefault("log_level", "info")

	if flags != nil {
		for flag, key := range peerFlags {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	var cfg Peer
	if err := read(v, &cfg); err != nil {
		return nil, err
	}
	if v.GetBool("input_disabled") {
		cfg.InputEnabled = false
	}
	return &cfg, nil
}
