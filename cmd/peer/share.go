package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/ScreenShare/internal/adapters/capture"
	"github.com/dkeye/ScreenShare/internal/adapters/input"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
)

var shareCmd = &cobra.Command{
	Use:   "share <target>",
	Short: "Share a display with a peer",
	Long: `Share a display with the peer registered as <target>.

The display is captured by an external encoder that sends VP8 RTP to
--capture, for example:
  ffmpeg -f x11grab -i :0.0 -c:v libvpx -deadline realtime -f rtp rtp://127.0.0.1:5004`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	f := shareCmd.Flags()
	f.Int("display", 0, "display index to share")
	f.String("capture", "", "local UDP address the encoder sends RTP to")
	f.Bool("no-input", false, "ignore remote input")
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target := domain.Identity(args[0])

	c := collaborators{capture: capture.New(cfg.CaptureRTPAddr, capture.DefaultCodec)}
	if cfg.InputEnabled {
		c.input = input.ViewOnly{Display: cfg.Display}
	}
	out := newOutcome()
	rt, err := newRuntime(cfg, c, out.callbacks())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer rt.stop()
	defer cancel()
	if err := rt.start(ctx); err != nil {
		return err
	}

	room, err := rt.orch.Request(ctx, target, core.CaptureTarget{Display: cfg.Display})
	if err != nil {
		return err
	}
	log.Info().Str("room_id", string(room)).Str("peer", string(target)).Msg("session requested, waiting for the viewer")

	select {
	case <-ctx.Done():
		// Shutdown stops the session and tells the viewer.
		return nil
	case err := <-out.ended:
		return err
	}
}
