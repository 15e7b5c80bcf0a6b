package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	configPath *string
	outline    bool
	connect    Connector
	table      Handler
	list       Handler
}

// NewSummaryCmd prints beat counts per act, or every beat with --outline
func NewSummaryCmd(configPath *string, connect Connector, table, list Handler) *cobra.Command {
	sc := &SummaryCmd{configPath: configPath, connect: connect, table: table, list: list}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the beats-by-act summary",
		RunE:  sc.run,
	}

	cmd.Flags().BoolVar(&sc.outline, "outline", false, "Print every beat instead of per-act counts")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reports, closeFn, err := sc.connect(ctx, *sc.configPath)
	if err != nil {
		return fmt.Errorf("failed to open report backend: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close report backend")
		}
	}()

	report, err := reports.Report(ctx)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if sc.outline {
		return sc.list.Handle(report)
	}
	return sc.table.Handle(report)
}
