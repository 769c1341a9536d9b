package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgraph/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	rateLimit  float64
	burst      int
	trustProxy bool
	noCache    bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reduce/render HTTP API",
		Long: `Serve the HTTP API:

  POST /v1/reduce             reduce a description document, answer graph JSON
  POST /v1/render?format=svg  reduce and render
  GET  /healthz               liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings().Server
			if !cmd.Flags().Changed("addr") {
				opts.addr = cfg.Addr
			}
			if !cmd.Flags().Changed("rate-limit") {
				opts.rateLimit = cfg.RateLimit
			}
			if !cmd.Flags().Changed("burst") {
				opts.burst = cfg.Burst
			}
			if !cmd.Flags().Changed("trust-proxy") {
				opts.trustProxy = cfg.TrustProxy
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", 0, "requests per second per client, 0 disables")
	cmd.Flags().IntVar(&opts.burst, "burst", 0, "request burst per client")
	cmd.Flags().BoolVar(&opts.trustProxy, "trust-proxy", false, "take client addresses from X-Forwarded-For/X-Real-IP")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, ch, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}
	printInfo("Serving on http://%s (Ctrl+C to stop)", ln.Addr())
	return serve(ctx, ln, server.New(runner, c.Logger, server.Options{
		RateLimit:   opts.rateLimit,
		Burst:       opts.burst,
		TrustProxy:  opts.trustProxy,
		ServiceName: appName,
	}), c.Logger)
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
