package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apm-run/apm/internal/app"
)

func newCompileCommand() *cobra.Command {
	var output string
	var chatmode string
	var dryRun bool
	var noLinks bool
	var withConstitution bool
	var noConstitution bool
	var validate bool
	var watch bool
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Discover primitives and emit AGENTS.md files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return fmt.Errorf("--watch is not supported in this build")
			}
			var withConstitutionPtr *bool
			switch {
			case cmd.Flags().Changed("with-constitution"):
				v := true
				withConstitutionPtr = &v
			case cmd.Flags().Changed("no-constitution"):
				v := false
				withConstitutionPtr = &v
			}

			service := newAppService()
			result, err := service.Compile(app.CompileRequest{
				Output:           output,
				Chatmode:         chatmode,
				DryRun:           dryRun,
				NoLinks:          noLinks,
				WithConstitution: withConstitutionPtr,
				Validate:         validate,
			})
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Printf("warning: %s: %s\n", w.SourcePath, w.Message)
			}
			for _, f := range result.Files {
				fmt.Printf("wrote %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file name (default AGENTS.md)")
	cmd.Flags().StringVar(&chatmode, "chatmode", "", "Chatmode to prepend at the project root")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "Disable relative Markdown link resolution")
	cmd.Flags().BoolVar(&withConstitution, "with-constitution", false, "Force-enable constitution injection")
	cmd.Flags().BoolVar(&noConstitution, "no-constitution", false, "Force-disable constitution injection")
	cmd.Flags().BoolVar(&watch, "watch", false, "Not supported in this build: compile returns an error when set")
	cmd.Flags().BoolVar(&validate, "validate", false, "Exit nonzero if any validation warning is produced")
	return cmd
}
