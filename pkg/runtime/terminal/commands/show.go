package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/query"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
)

type ShowCmd struct {
	env     *Env
	filters filterFlags
	toggles []string
}

func NewShowCmd(env *Env) *cobra.Command {
	sc := &ShowCmd{env: env}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the income statements table",
		RunE:  sc.run,
	}
	sc.filters.register(cmd)
	cmd.Flags().StringArrayVar(&sc.toggles, "toggle", nil,
		"Select a column header, in order; repeating a column flips its direction")
	return cmd
}

func (sc *ShowCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := sc.env.Config

	filter, sort, err := sc.filters.spec(ctx, cfg.Filter.Scale())
	if err != nil {
		return err
	}

	view := statements.NewView()
	if err := view.SetFilter(filter); err != nil {
		return err
	}
	if sort == nil {
		err = view.ClearSort()
	} else {
		err = view.SetSort(sort)
	}
	if err != nil {
		return err
	}
	for _, raw := range sc.toggles {
		field, err := query.ParseSortField(raw)
		if err != nil {
			return err
		}
		if err := view.ToggleSort(field); err != nil {
			return err
		}
	}

	svc, closeFn, err := sc.env.Factory.Statements(ctx, cfg)
	if err != nil {
		return sc.env.Reporter.Handle(cfg.API.Symbol, statements.ViewState{Err: err})
	}
	defer func() { _ = closeFn() }()

	// load errors end up in the view state and are rendered by the reporter
	_ = view.Load(ctx, svc)

	return sc.env.Reporter.Handle(svc.Symbol(), view.State())
}
