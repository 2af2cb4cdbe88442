package terminal

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/runtime/app"
	"github.com/de-tools/statement-atlas/pkg/runtime/logging"
	"github.com/de-tools/statement-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/statement-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/statement-atlas/pkg/services/config"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
	"github.com/de-tools/statement-atlas/pkg/store/objectstore"
)

// ErrReported is returned when the failure has already been printed as the command's output.
var ErrReported = export.ErrReported

// CLI represents the command-line interface
type CLI struct {
	env       *commands.Env
	rootCmd   *cobra.Command
	logOutput io.Writer
	cfgPath   string
	envFile   string
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.Factory
	Output  io.Writer
	// LogOutput receives diagnostics; defaults to stderr.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Factory == nil {
		opts.Factory = DefaultFactory{}
	}

	cli := &CLI{
		env: &commands.Env{
			Factory:  opts.Factory,
			Reporter: export.NewReporter(opts.Output),
		},
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "atlas",
		Short:             "Browse a company's annual income statements",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&cli.envFile, "env-file", ".env", "Path to a .env file to load if present")

	cmd.AddCommand(commands.NewShowCmd(cli.env))
	cmd.AddCommand(commands.NewExportCmd(cli.env))
	cmd.AddCommand(commands.NewFieldsCmd())
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	if cli.envFile != "" {
		if _, err := os.Stat(cli.envFile); err == nil {
			if err := godotenv.Load(cli.envFile); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, cli.logOutput)
	if err != nil {
		return err
	}

	cli.env.Config = cfg
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// DefaultFactory wires the production FMP client, DuckDB cache and S3 uploader.
type DefaultFactory struct{}

func (DefaultFactory) Statements(ctx context.Context, cfg *config.Config) (statements.Service, func() error, error) {
	return app.NewStatementsService(ctx, cfg)
}

func (DefaultFactory) Uploader(ctx context.Context, cfg *config.Config) (objectstore.Uploader, error) {
	return app.NewUploader(ctx, cfg)
}

func (DefaultFactory) Credentials(cfg *config.Config) (config.CredentialRegistry, error) {
	return app.Credentials(cfg)
}
