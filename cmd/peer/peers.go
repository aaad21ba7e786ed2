package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkeye/ScreenShare/internal/rendezvous"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List identities registered at the rendezvous server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		endpoint, err := peersURL(cfg.SignalURL)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(endpoint)
		if err != nil {
			return fmt.Errorf("list peers: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("list peers: %s", resp.Status)
		}
		var body rendezvous.Peers
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode peers: %w", err)
		}
		for _, p := range body.Peers {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

// peersURL derives the HTTP peers endpoint from the websocket signal URL.
func peersURL(signalURL string) (string, error) {
	u, err := url.Parse(signalURL)
	if err != nil {
		return "", fmt.Errorf("signal url: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("signal url: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/ws/signal") + "/peers"
	u.RawQuery = ""
	return u.String(), nil
}
