package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	env *Env
}

func NewProfilesCmd(env *Env) *cobra.Command {
	pc := &ProfilesCmd{env: env}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the API key profiles in the credentials file",
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := pc.env.Factory.Credentials(pc.env.Config)
	if err != nil {
		return fmt.Errorf("failed to open credentials: %w", err)
	}
	if registry == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No credentials file found")
		return nil
	}

	profiles, err := registry.GetProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No profiles found")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Available profiles:\n%s\n", strings.Join(profiles, "\n"))
	return nil
}
