package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/YaCodeDev/GoYaSocket/config"
	"github.com/YaCodeDev/GoYaSocket/yaencoding"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
	"github.com/YaCodeDev/GoYaSocket/yawebsocket"
)

const shutdownTimeout = 5 * time.Second

type catFlags struct {
	url         string
	msgpack     bool
	metricsAddr string
	linger      time.Duration
}

func runCat(ctx context.Context, cmd *cobra.Command, flags catFlags) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLog := yalogger.NewBaseLogger(nil).NewLogger()

	cfg, err := config.LoadSocket(bootLog)
	if err != nil {
		return err
	}

	if flags.url != "" {
		cfg.URL = flags.url
	}

	if flags.metricsAddr != "" {
		cfg.MetricsAddr = flags.metricsAddr
	}

	log := newLogger(cfg.Log, cmd.ErrOrStderr())

	opts, err := socketOptions(cfg, log)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())

		opts = append(opts, yasocket.WithMetrics(registry))

		server := serveMetrics(cfg.MetricsAddr, registry, log)
		defer shutdown(server, log)
	}

	printer := &printer{out: cmd.OutOrStdout(), msgpack: flags.msgpack, log: log}
	opened := make(chan struct{}, 1)

	opts = append(opts,
		yasocket.WithListener(yasocket.EventMessage, yasocket.MessageListener(printer.print)),
		yasocket.WithListener(yasocket.EventOpen, func(_ *yasocket.Socket, _ yasocket.Event) {
			select {
			case opened <- struct{}{}:
			default:
			}
		}),
	)

	socket, err := yasocket.New(ctx, yawebsocket.NewDialer(log), connectParams(cfg), opts...)
	if err != nil {
		return err
	}

	p := &pump{socket: socket, opened: opened, msgpack: flags.msgpack, linger: flags.linger, log: log}

	go p.run(ctx, cmd.InOrStdin())

	<-socket.Done()

	return nil
}

type pump struct {
	socket  *yasocket.Socket
	opened  <-chan struct{}
	msgpack bool
	linger  time.Duration
	log     yalogger.Logger
}

// run sends stdin lines until EOF. It then waits for the buffered lines to
// be replayed, lingers for replies and closes the socket.
func (p *pump) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		msg, err := lineMessage(scanner.Text(), p.msgpack)
		if err != nil {
			p.log.Warnf("Skipping line: %v", err)

			continue
		}

		if err := p.socket.Send(msg); err != nil {
			p.log.Warnf("Send failed, message buffered: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		p.log.Errorf("Reading stdin: %v", err)
	}

	if p.socket.State() != yasocket.StateOpen || p.socket.Buffered() > 0 {
		select {
		case <-p.opened:
		case <-p.socket.Done():
			return
		case <-ctx.Done():
			return
		}
	}

	select {
	case <-time.After(p.linger):
	case <-p.socket.Done():
		return
	case <-ctx.Done():
		return
	}

	if err := p.socket.Close(yasocket.CloseParams{Reason: "stdin closed"}); err != nil {
		p.log.Errorf("Closing socket: %v", err)
	}
}

func lineMessage(line string, msgpack bool) (yasocket.Message, yaerrors.Error) {
	if !msgpack {
		return yasocket.Text(line), nil
	}

	value, err := yaencoding.DecodeJSON[any]([]byte(line))
	if err != nil {
		return yasocket.Message{}, err.Wrap("line is not JSON")
	}

	return yaencoding.EncodeMessagePack(*value)
}

type printer struct {
	out     io.Writer
	msgpack bool
	log     yalogger.Logger
}

func (p *printer) print(_ *yasocket.Socket, ev yasocket.MessageEvent) {
	if _, err := fmt.Fprintln(p.out, p.render(ev.Message)); err != nil {
		p.log.Errorf("Writing stdout: %v", err)
	}
}

func (p *printer) render(msg yasocket.Message) string {
	if msg.Type == yasocket.TextMessage {
		return msg.String()
	}

	if p.msgpack {
		value, err := yaencoding.Decode[any](msg)
		if err == nil {
			if encoded, err := yaencoding.EncodeJSON(*value); err == nil {
				return encoded.String()
			}
		}
	}

	return yaencoding.ToString(msg.Data)
}

func serveMetrics(addr string, registry *prometheus.Registry, log yalogger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics server stopped: %v", err)
		}
	}()

	log.Infof("Serving metrics on %s/metrics", addr)

	return server
}

func shutdown(server *http.Server, log yalogger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("Metrics server shutdown: %v", err)
	}
}
