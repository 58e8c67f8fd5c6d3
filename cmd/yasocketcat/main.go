// Command yasocketcat pipes stdin lines into a self-healing WebSocket and
// prints every inbound message on stdout.
//
// Settings come from SOCKET_* environment variables (see config.Socket) and
// can be overridden with flags:
//
//	yasocketcat --url ws://127.0.0.1:8080/ws --msgpack
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags catFlags

	cmd := &cobra.Command{
		Use:   "yasocketcat",
		Short: "Pipe stdin lines through a reconnecting WebSocket",
		Long: "yasocketcat sends every stdin line as a message and prints inbound messages.\n" +
			"Lines typed while the connection is down are buffered and replayed on reconnect.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCat(cmd.Context(), cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", "", "WebSocket URL, overrides SOCKET_URL")
	cmd.Flags().BoolVar(&flags.msgpack, "msgpack", false,
		"treat stdin lines as JSON and send them as MessagePack binary frames")
	cmd.Flags().DurationVar(&flags.linger, "linger", time.Second,
		"how long to wait for replies after stdin is exhausted")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address, overrides SOCKET_METRICS_ADDR")

	return cmd
}
