package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/format"
	"github.com/de-tools/statement-atlas/pkg/query"
)

func NewFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the columns statements can be sorted by",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, field := range query.SortFields() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", field, format.ColumnLabel(field))
			}
			return nil
		},
	}
}
