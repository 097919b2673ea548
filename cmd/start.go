package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/tyto/internal/config"
	"firestige.xyz/tyto/internal/link"
	"firestige.xyz/tyto/internal/log"
	"firestige.xyz/tyto/internal/metrics"
	"firestige.xyz/tyto/internal/pipeline"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion pipeline",
	Long: `Start the frame ingestion and validation pipeline.

Examples:
  tyto start -c config.yml        # replay the configured capture file
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("failed to load config", err)
		}
		if err := log.Init(cfg.Log); err != nil {
			exitWithError("failed to init logging", err)
		}

		source, err := link.NewPcapSource(link.PcapConfig{
			Path:           cfg.Link.Pcap.Path,
			Loop:           cfg.Link.Pcap.Loop,
			CorruptFCSRate: cfg.Link.Pcap.CorruptFCSRate,
		})
		if err != nil {
			exitWithError("failed to open link source", err)
		}

		p, err := pipeline.New(pipeline.Config{
			Source:        source,
			Validator:     cfg.Validator.ValidatorSettings(),
			QueueCapacity: cfg.Queue.Capacity,
		})
		if err != nil {
			exitWithError("failed to build pipeline", err)
		}

		ctx := context.Background()
		var srv *metrics.Server
		if cfg.Metrics.Enabled {
			srv = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
			if err := srv.Start(ctx); err != nil {
				exitWithError("failed to start metrics server", err)
			}
		}

		if err := p.Start(); err != nil {
			exitWithError("failed to start pipeline", err)
		}

		// Run until the source is exhausted or a signal arrives.
		done := make(chan struct{})
		go func() {
			p.Wait()
			close(done)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			slog.Info("signal received, shutting down", "signal", sig.String())
			if err := p.Stop(); err != nil {
				slog.Error("pipeline stop failed", "error", err)
			}
		case <-done:
			snap := p.Stats()
			slog.Info("replay finished",
				"frames", snap.Frames,
				"valid", snap.Valid,
				"discarded", snap.Discarded,
				"bytes", snap.Bytes,
				"overflow", snap.Overflow)
		}

		if srv != nil {
			if err := srv.Stop(ctx); err != nil {
				slog.Error("metrics server stop failed", "error", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
