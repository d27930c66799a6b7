package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/petface/internal/constants"
	"github.com/kozaktomas/petface/internal/detector"
	"github.com/kozaktomas/petface/internal/logger"
	"github.com/kozaktomas/petface/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the petface HTTP API.

The server accepts photo uploads, asks the landmark detector at DETECTOR_URL
for a face mesh and answers with the best matching breeds. Host and port
flags take precedence over WEB_HOST and WEB_PORT.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", constants.DefaultPort, "Port to listen on")
	serveCmd.Flags().String("host", constants.DefaultHost, "Host to bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		a.cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		a.cfg.Web.Host = mustGetString(cmd, "host")
	}

	det, err := detector.New(a.cfg.Detector)
	if err != nil {
		return err
	}
	defer det.Close()

	for _, sp := range a.registry.Species() {
		c, _ := a.registry.Get(sp)
		a.log.WithFields(logger.Fields{
			"pet_type": sp,
			"breeds":   c.Len(),
		}).Info("Catalog loaded")
	}
	a.log.WithFields(logger.Fields{
		"url":         a.cfg.Detector.URL,
		"transport":   a.cfg.Detector.Transport(),
		"concurrency": det.Concurrency(),
		"timeout":     a.cfg.Detector.Timeout.String(),
	}).Info("Landmark detector configured")

	server := web.NewServer(a.cfg, a.newService(det), a.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting petface on http://%s\n", server.Addr())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
