package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
)

func newThreadCommand() *cobra.Command {
	var (
		cpu      int
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Run a heartbeat on a dedicated OS thread outside the pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return fmt.Errorf("poolctl: --duration must be positive, got %v", duration)
			}
			ctx := cmd.Context()
			beats := make(chan time.Time, 16)

			opts := []wp.ThreadOption{wp.WithName("heartbeat")}
			if cmd.Flags().Changed("cpu") {
				opts = append(opts, wp.WithCPU(cpu))
			}

			deadline := time.Now().Add(duration)
			wp.StartThread(ctx, func() {
				defer close(beats)
				ticker := time.NewTicker(duration / 4)
				defer ticker.Stop()
				for now := range ticker.C {
					if now.After(deadline) || ctx.Err() != nil {
						return
					}
					beats <- now
				}
			}, opts...)

			timeout := time.After(duration + time.Second)
			count := 0
			for {
				select {
				case _, ok := <-beats:
					if !ok {
						fmt.Fprintf(cmd.OutOrStdout(), "heartbeats: %d\n", count)
						return nil
					}
					count++
				case <-timeout:
					// the thread never started or stalled; StartThread only logs
					fmt.Fprintf(cmd.OutOrStdout(), "heartbeats: %d (thread did not finish)\n", count)
					return nil
				}
			}
		},
	}

	cmd.Flags().IntVar(&cpu, "cpu", 0, "Pin the thread to this CPU")
	cmd.Flags().DurationVar(&duration, "duration", time.Second, "How long the heartbeat runs")
	return cmd
}
