package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/najoast/kipc/capture"
	"github.com/najoast/kipc/config"
	"github.com/najoast/kipc/ipc"
	"github.com/najoast/kipc/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func capturePath(a *app, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.cfg.Capture.Path != "" {
		return a.cfg.Capture.Path, nil
	}
	return "", fmt.Errorf("no capture file given and capture.path is not configured")
}

func newDumpCmd(a *app) *cobra.Command {
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "dump [capture-file]",
		Short: "Decode every envelope in a capture file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := capturePath(a, args)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open capture file: %w", err)
			}
			defer f.Close()

			r := capture.NewReader(f,
				capture.WithLogger(a.logger),
				capture.WithSkipInvalid(skipInvalid || a.cfg.Capture.SkipInvalid),
			)

			records := []Record{}
			var readErr error
			for {
				m, err := r.Next()
				if errors.Is(err, capture.ErrNoMessage) {
					break
				}
				if err != nil {
					readErr = err
					break
				}
				records = append(records, newRecord(r.Offset()-ipc.TotalSize, m))
			}

			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(records))
			if r.Skipped() > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(fmt.Sprintf("skipped %d invalid record(s)", r.Skipped())))
			}
			return readErr
		},
	}

	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip records that fail to decode")
	return cmd
}

func newFollowCmd(a *app) *cobra.Command {
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "follow [capture-file]",
		Short: "Decode envelopes as they are appended to a capture file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := capturePath(a, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if a.cfgFile != "" {
				watcher, err := config.NewWatcher(a.cfgFile, config.NewLoader(), config.WithWatcherLogger(a.logger))
				if err != nil {
					return err
				}
				watcher.OnConfigChange(logging.Follow(a.level, a.logger))
				if err := watcher.Start(); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			out := cmd.OutOrStdout()
			handler := func(offset int64, m ipc.Message) error {
				r := newRecord(offset, m)
				_, err := fmt.Fprintf(out, "%d\t%s\t%s -> %s\t%s\n", r.Offset, r.Type, r.Source, r.Destination, r.Payload)
				return err
			}

			f, err := capture.NewFollower(path, handler,
				capture.WithLogger(a.logger),
				capture.WithPollInterval(a.cfg.Capture.PollInterval),
				capture.WithSkipInvalid(skipInvalid || a.cfg.Capture.SkipInvalid),
			)
			if err != nil {
				return err
			}
			defer f.Close()

			a.logger.Info("following capture", zap.String("file", path))
			return f.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip records that fail to decode")
	return cmd
}
