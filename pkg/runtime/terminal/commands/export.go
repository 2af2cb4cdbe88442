package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/query"
	"github.com/de-tools/statement-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
	"github.com/de-tools/statement-atlas/pkg/store/objectstore"
)

type ExportCmd struct {
	env     *Env
	filters filterFlags
	out     string
}

func NewExportCmd(env *Env) *cobra.Command {
	ec := &ExportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted statements as CSV",
		RunE:  ec.run,
	}
	ec.filters.register(cmd)
	cmd.Flags().StringVar(&ec.out, "out", "", "Destination file path or s3://bucket/key")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := ec.env.Config
	logger := zerolog.Ctx(ctx)

	filter, sort, err := ec.filters.spec(ctx, cfg.Filter.Scale())
	if err != nil {
		return err
	}

	var location objectstore.Location
	remote := objectstore.IsURI(ec.out)
	if remote {
		if location, err = objectstore.ParseURI(ec.out); err != nil {
			return err
		}
	}

	svc, closeFn, err := ec.env.Factory.Statements(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	records, err := svc.Records(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", fmp.UserMessage(err), err)
	}
	rows, err := query.Display(records, filter, sort)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		return err
	}

	if remote {
		uploader, err := ec.env.Factory.Uploader(ctx, cfg)
		if err != nil {
			return err
		}
		if err := uploader.Upload(ctx, location, buf.Bytes(), export.CSVContentType); err != nil {
			return err
		}
	} else if err := os.WriteFile(ec.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ec.out, err)
	}

	logger.Info().Str("out", ec.out).Int("rows", len(rows)).Msg("exported statements")
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d statements to %s\n", len(rows), ec.out)
	return nil
}
