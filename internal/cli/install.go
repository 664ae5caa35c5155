package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apm-run/apm/internal/app"
)

func newInstallCommand() *cobra.Command {
	var only string
	var update bool
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Resolve and fetch declared dependencies into apm_modules/",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.Install(cmd.Context(), app.InstallRequest{
				Only:   only,
				Update: update,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Printf("warning: %s: %s\n", w.SourcePath, w.Message)
			}
			if dryRun {
				for _, entry := range result.Plan {
					fmt.Printf("plan: %s/%s @ %s\n", entry.Owner, entry.Repo, entry.RefRequested)
				}
				return nil
			}
			for _, key := range result.Installed {
				fmt.Printf("installed: %s\n", key)
			}
			for _, key := range result.Skipped {
				fmt.Printf("skipped (up to date): %s\n", key)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&only, "only", "", "Restrict install to \"apm\" or \"mcp\" dependencies")
	cmd.Flags().BoolVar(&update, "update", false, "Reinstall even when the lock file is up to date")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved install plan without fetching")
	return cmd
}
