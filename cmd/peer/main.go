package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/ScreenShare/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "screenshare",
	Short: "Share a screen with, or view the screen of, another peer over WebRTC",
	Long: `screenshare connects to a rendezvous server under an identity and opens
direct WebRTC sessions with other identities registered there.

Examples:
  screenshare view --identity bob
  screenshare share bob --identity alice --display 0
  screenshare peers`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("signal-url", "", "rendezvous websocket URL")
	pf.String("identity", "", "identity to register under")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.Bool("include-loopback", false, "gather loopback ICE candidates (both peers on one host)")

	rootCmd.AddCommand(shareCmd, viewCmd, peersCmd)
}

func main() {
	logging.Setup("info")
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("screenshare")
		os.Exit(1)
	}
}
