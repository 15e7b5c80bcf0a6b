package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/beat-sheets/pkg/runtime/terminal/commands"
	"github.com/de-tools/beat-sheets/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	opts       Options
	configPath string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect  commands.Connector
	Uploader commands.UploaderFactory
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx available to every command
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "beats",
		Short:         "Beat sheet reporting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to a YAML config file (BEATS_* environment variables also apply)")

	cmd.AddCommand(commands.NewExportCmd(&cli.configPath, cli.opts.Connect, cli.opts.Uploader))
	cmd.AddCommand(commands.NewSummaryCmd(&cli.configPath, cli.opts.Connect,
		export.NewReporter(cli.opts.Output), NewReporter(cli.opts.Output)))

	return cmd
}
