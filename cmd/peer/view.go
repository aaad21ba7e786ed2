package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Wait for peers to share their screen with you",
	Long: `Register and answer every incoming share request. Received media is
counted and reported; with --input, lines read from stdin are sent to the
sharer as remote input:
  move <x> <y>
  down <x> <y> | up <x> <y>
  key <name> | keyup <name>`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	viewCmd.Flags().Bool("input", false, "forward stdin commands as remote input")
}

func runView(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	forward, _ := cmd.Flags().GetBool("input")

	sink := newPacketCounter(5 * time.Second)
	defer sink.Close()
	out := newOutcome()
	rt, err := newRuntime(cfg, collaborators{render: sink}, out.callbacks())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer rt.stop()
	defer cancel()
	if err := rt.start(ctx); err != nil {
		return err
	}
	log.Info().Str("identity", cfg.Identity).Msg("waiting for share requests")

	if forward {
		go newConsole(rt.orch, os.Stdin).run(ctx, out.connected)
	}
	<-ctx.Done()
	return nil
}
