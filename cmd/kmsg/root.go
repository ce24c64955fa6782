package main

import (
	"fmt"

	"github.com/najoast/kipc/config"
	"github.com/najoast/kipc/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all subcommands, set up in PersistentPreRunE.
type app struct {
	// Global flags
	cfgFile      string
	outputFormat string
	logLevel     string

	cfg       *config.Config
	logger    *zap.Logger
	level     zap.AtomicLevel
	formatter Formatter
}

// NewRootCmd builds the kmsg command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kmsg",
		Short: "Encode, decode and inspect kernel message envelopes",
		Long: `kmsg works with the fixed-size envelopes the kernel uses for interrupts,
exceptions, scheduling events, inter-process and inter-kernel messages.
It converts envelopes to and from hex, and reads capture files made of
back-to-back envelopes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: built-in defaults and KIPC_* environment)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "table", "output format: table, json, yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newDumpCmd(a),
		newFollowCmd(a),
		newSizesCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.NewLoader().Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = config.LogLevel(a.logLevel)
	}

	logger, level, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	a.cfg = cfg
	a.logger = logger.With(zap.String("kernel", cfg.Kernel.Name))
	a.level = level
	a.formatter = NewFormatter(a.outputFormat)
	return nil
}
