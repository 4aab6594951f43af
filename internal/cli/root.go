// Package cli implements the gpumark command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

// NewRootCmd builds the gpumark command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "gpumark",
		Short:         "gpumark: repeatable GPU rendering benchmark",
		Version:       gpumark.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			level, _ := cfg.Level()
			gpumark.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML, JSON or TOML)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	run := a.newRunCmd()
	root.AddCommand(run, a.newBackendsCmd(), a.newValidateCmd(), newVersionCmd())
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "gpumark:", err)
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/gpumark.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gpumark version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gpumark", gpumark.Version)
		},
	}
}
