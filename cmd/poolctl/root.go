package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/spf13/cobra"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		lg.FromContext(ctx).Info("received interrupt signal, shutting down")
		cancel()
	}()

	var configPath string

	rootCmd := &cobra.Command{
		Use:           "poolctl",
		Short:         "Exercise the device worker pool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(newRunCommand(&configPath))
	rootCmd.AddCommand(newThreadCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		lg.FromContext(ctx).Error("command failed", lg.Any("error", err))
		os.Exit(1)
	}
}
