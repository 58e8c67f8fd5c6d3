// Command yasocketecho serves the yaechoserver WebSocket echo endpoint.
//
// Settings come from ECHO_* environment variables (see config.Echo):
//
//	ECHO_ADDR=:9000 yasocketecho
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/YaCodeDev/GoYaSocket/config"
	"github.com/YaCodeDev/GoYaSocket/yaechoserver"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:          "yasocketecho",
		Short:        "Serve a WebSocket echo endpoint on /ws",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadEcho(yalogger.NewBaseLogger(nil).NewLogger())
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Addr = addr
			}

			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides ECHO_ADDR")

	return cmd
}

func serve(ctx context.Context, cfg config.Echo) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:  yalogger.Logrus,
		Level:           cfg.Log.Level,
		FullTimestamp:   true,
		TimestampFormat: yalogger.DefaultTimestampFormat,
		JSON:            cfg.Log.JSON,
	}).NewLogger()

	gin.SetMode(gin.ReleaseMode)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           yaechoserver.NewRouter(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		log.Infof("Echo server listening on %s", cfg.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down echo server")

	return server.Shutdown(shutdownCtx)
}
