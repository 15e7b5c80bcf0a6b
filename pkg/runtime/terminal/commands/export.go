package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/beat-sheets/pkg/services/publish"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const stdout = "-"

type ExportCmd struct {
	configPath *string
	format     string
	out        string
	s3Bucket   string
	s3Key      string
	awsProfile string
	connect    Connector
	uploader   UploaderFactory
}

func NewExportCmd(configPath *string, connect Connector, uploader UploaderFactory) *cobra.Command {
	ec := &ExportCmd{configPath: configPath, connect: connect, uploader: uploader}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the beats-by-act report to a file, stdout or S3",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.format, "format", report.FormatCSV.String(), "Report format: json, html, csv or print")
	cmd.Flags().StringVar(&ec.out, "out", stdout, "Output file, - for stdout")
	cmd.Flags().StringVar(&ec.s3Bucket, "s3-bucket", "", "Upload the report to this S3 bucket")
	cmd.Flags().StringVar(&ec.s3Key, "s3-key", "", "Object key for the upload (defaults to the report file name)")
	cmd.Flags().StringVar(&ec.awsProfile, "aws-profile", "", "AWS shared config profile used for the upload")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	format, err := report.ParseFormat(ec.format)
	if err != nil {
		return err
	}

	reports, closeFn, err := ec.connect(ctx, *ec.configPath)
	if err != nil {
		return fmt.Errorf("failed to open report backend: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn().Err(err).Msg("failed to close report backend")
		}
	}()

	resp := reports.Render(ctx, format)
	if resp.Status >= 400 {
		return fmt.Errorf("report rendering failed with status %d: %s", resp.Status, resp.Body)
	}

	if ec.out == stdout {
		if _, err := cmd.OutOrStdout().Write(resp.Body); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		if err := os.WriteFile(ec.out, resp.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", ec.out, err)
		}
		logger.Info().Str("path", ec.out).Str("format", format.String()).Msg("report written")
	}

	if ec.s3Bucket == "" {
		return nil
	}
	if ec.uploader == nil {
		return fmt.Errorf("s3 upload is not available")
	}
	key := ec.s3Key
	if key == "" {
		key = objectKey(resp.Filename, format)
	}

	up, err := ec.uploader(ctx, ec.awsProfile)
	if err != nil {
		return fmt.Errorf("failed to create uploader: %w", err)
	}
	return up.Upload(ctx, publish.Object{
		Bucket:      ec.s3Bucket,
		Key:         key,
		ContentType: resp.ContentType,
		Body:        resp.Body,
	})
}

func objectKey(filename string, format report.Format) string {
	if filename != "" {
		return filename
	}
	ext := format.String()
	if format == report.FormatPrintHTML {
		ext = "print.html"
	}
	return "beat-sheets-report." + ext
}
