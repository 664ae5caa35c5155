package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apm-run/apm/internal/app"
)

func newInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a starter apm.yml and sample workflow",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			service := newAppService()
			result, err := service.Init(app.InitRequest{Name: name, Force: force})
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", result.ManifestPath)
			fmt.Printf("wrote %s\n", result.WorkflowPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing apm.yml")
	cmd.Flags().Bool("yes", false, "Skip confirmation prompts")
	return cmd
}
