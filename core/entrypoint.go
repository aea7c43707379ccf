package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path"
	"runtime/trace"
	"syscall"
	"time"

	"github.com/encodeous/dvsim/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger writes coloured output to w, and plain text to logPath if it is set
func NewLogger(w io.Writer, prefix, logPath string, logLevel slog.Level) (*slog.Logger, io.Closer, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(w, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	var closer io.Closer = io.NopCloser(nil)
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// setupDebugging starts the optional trace and debug server. The returned func stops the trace.
func setupDebugging() func() {
	stop := func() {}
	if state.DBG_trace {
		f, err := os.Create("trace.out")
		if err != nil {
			log.Fatal(err)
		}
		err = trace.Start(f)
		if err != nil {
			_ = f.Close()
			return stop
		}
		log.Println("Started tracing")
		stop = func() {
			trace.Stop()
			_ = f.Close()
		}
	}
	if state.DBG_debug {
		go func() {
			log.Println(http.ListenAndServe(state.DebugAddr, nil))
		}()
	}
	return stop
}

// Bootstrap reads the topology and runs it
func Bootstrap(configPath, logPath string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	cfg, err := state.ReadSimConfig(configPath)
	if err != nil {
		return err
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}
	defer setupDebugging()()
	return Start(*cfg, level, os.Stdout)
}

// Start runs the simulation for cfg.Duration, or until SIGINT/SIGTERM, then prints every routing table to out
func Start(cfg state.SimCfg, logLevel slog.Level, out io.Writer) error {
	logger, closer, err := NewLogger(os.Stderr, cfg.Name, cfg.LogPath, logLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
		}
	}()

	network, err := NewNetwork(&cfg, logger)
	if err != nil {
		return err
	}
	network.Start(ctx)
	logger.Info("simulation has been started. To exit early, send SIGINT or Ctrl+C.", "duration", cfg.Duration)

	for _, m := range cfg.Messages {
		go func() {
			select {
			case <-ctx.Done():
			case <-time.After(m.After):
				if err := network.Send(m.From, m.To, []byte(m.Data)); err != nil {
					logger.Error("failed to send scripted message", "from", m.From, "to", m.To, "error", err)
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
	case <-time.After(cfg.Duration):
	}
	cancel(errors.New("simulation finished"))
	if err := network.Stop(); err != nil {
		return err
	}
	_, err = fmt.Fprint(out, network.Tables())
	return err
}

// Converge runs the network until it is idle for quiet, or timeout passes, and prints every routing table to out
func Converge(cfg state.SimCfg, logLevel slog.Level, quiet, timeout time.Duration, out io.Writer) error {
	logger, closer, err := NewLogger(os.Stderr, cfg.Name, cfg.LogPath, logLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	network, err := NewNetwork(&cfg, logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	network.Start(context.Background())
	waitErr := network.WaitIdle(ctx, quiet)
	if err := network.Stop(); err != nil {
		return err
	}
	if waitErr != nil {
		return fmt.Errorf("network did not converge: %w", waitErr)
	}
	_, err = fmt.Fprint(out, network.Tables())
	return err
}
