//go:build unix

package commands

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"fdring/pkg/circbuff"
	"fdring/pkg/descriptor"
	"fdring/pkg/metrics"
	"fdring/pkg/relay"
)

var (
	connectAddr string
	metricsAddr string
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Pump stdin through the buffer to stdout or a TCP peer",
	Args:  cobra.NoArgs,
	RunE:  runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&connectAddr, "connect", "", "send to this TCP address instead of stdout")
	relayCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(relayCmd)
}

func runRelay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// a second signal kills a relay stuck in a blocking read
		<-ctx.Done()
		stop()
	}()

	buf, err := circbuff.New(cfg.Buffer.Capacity)
	if err != nil {
		return err
	}
	defer buf.Close()

	var sink circbuff.Sink = descriptor.Stdout
	if connectAddr != "" {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", connectAddr)
		if err != nil {
			return errors.Wrapf(err, "connect %s", connectAddr)
		}
		defer conn.Close()
		sink = conn
		logger.Info("connected", "remote", conn.RemoteAddr().String())
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	r := &relay.Relay{
		Buffer:  buf,
		Source:  descriptor.Stdin,
		Sink:    sink,
		Logger:  logger,
		Metrics: m,
	}
	_, err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
