package cli

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apm-run/apm/internal/app"
	"github.com/apm-run/apm/internal/core"
)

func newRunCommand() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Resolve and execute a script declared in apm.yml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newAppService()
			result, err := service.Run(app.RunRequest{Script: args[0], Params: parseParams(params)})
			if err != nil {
				return err
			}
			shell := exec.CommandContext(cmd.Context(), "sh", "-c", result.Command)
			shell.Stdout = cmd.OutOrStdout()
			shell.Stderr = cmd.ErrOrStderr()
			shell.Stdin = cmd.InOrStdin()
			return shell.Run()
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Script parameter in k=v form (repeatable)")
	return cmd
}

func newPreviewCommand() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "preview <script>",
		Short: "Print a script's resolved command without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newAppService()
			result, err := service.Run(app.RunRequest{Script: args[0], Params: parseParams(params), Preview: true})
			if err != nil {
				return err
			}
			fmt.Println(result.Command)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Script parameter in k=v form (repeatable)")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scripts declared in apm.yml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.Run(app.RunRequest{List: true})
			if err != nil {
				return err
			}
			names := make([]string, 0, len(result.Scripts))
			for name := range result.Scripts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				command := result.Scripts[name]
				if params := core.PlaceholderNames(command); len(params) > 0 {
					fmt.Printf("%s\t%s\t(params: %s)\n", name, command, strings.Join(params, ", "))
					continue
				}
				fmt.Printf("%s\t%s\n", name, command)
			}
			return nil
		},
	}
}

func parseParams(raw []string) map[string]string {
	params := map[string]string{}
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return params
}
