package commands

import (
	"context"

	"github.com/de-tools/statement-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/statement-atlas/pkg/services/config"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
	"github.com/de-tools/statement-atlas/pkg/store/objectstore"
)

// Factory builds the collaborators a command needs once configuration is known.
type Factory interface {
	Statements(ctx context.Context, cfg *config.Config) (statements.Service, func() error, error)
	Uploader(ctx context.Context, cfg *config.Config) (objectstore.Uploader, error)
	Credentials(cfg *config.Config) (config.CredentialRegistry, error)
}

// Env is shared by all commands; Config is populated before any command runs.
type Env struct {
	Config   *config.Config
	Factory  Factory
	Reporter *export.Reporter
}
