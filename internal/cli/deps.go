package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apm-run/apm/internal/types"
)

func newDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Inspect and manage installed dependencies",
	}
	cmd.AddCommand(newDepsListCommand())
	cmd.AddCommand(newDepsTreeCommand())
	cmd.AddCommand(newDepsInfoCommand())
	cmd.AddCommand(newDepsCleanCommand())
	cmd.AddCommand(newDepsUpdateCommand())
	return cmd
}

func newDepsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's direct dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.DepsList()
			if err != nil {
				return err
			}
			for _, e := range result.Entries {
				state := "not installed"
				if e.Installed {
					state = e.ResolvedSHA
				}
				fmt.Printf("%s/%s\t%s\t%s\n", e.Owner, e.Repo, e.RefRequested, state)
			}
			return nil
		},
	}
}

func newDepsTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the full recursive dependency graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.DepsTree(cmd.Context())
			if err != nil {
				return err
			}
			printDependencyTree(result.Root, 0)
			return nil
		},
	}
}

func printDependencyTree(node *types.DependencyNode, depth int) {
	if node == nil {
		return
	}
	if node.Owner != "" {
		fmt.Printf("%s%s/%s @ %s\n", strings.Repeat("  ", depth), node.Owner, node.Repo, node.ResolvedCommit)
	}
	for _, child := range node.Children {
		printDependencyTree(child, depth+1)
	}
}

func newDepsInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <owner/repo>",
		Short: "Show the installed manifest and lock metadata for a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newAppService()
			result, err := service.DepsInfo(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s/%s\n", result.Owner, result.Repo)
			fmt.Printf("  name:    %s\n", result.Manifest.Name)
			fmt.Printf("  version: %s\n", result.Manifest.Version)
			fmt.Printf("  sha:     %s\n", result.LockEntry.ResolvedSHA)
			fmt.Printf("  path:    %s\n", result.InstallPath)
			return nil
		},
	}
}

func newDepsCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove apm_modules/ and the lock file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.DepsClean()
			if err != nil {
				return err
			}
			for _, name := range result.Removed {
				fmt.Printf("removed %s\n", name)
			}
			return nil
		},
	}
}

func newDepsUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Reinstall every dependency at its latest resolvable ref",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.DepsUpdate(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range result.Updated {
				fmt.Printf("%s/%s: %s -> %s\n", u.Owner, u.Repo, u.FromSHA, u.ToSHA)
			}
			return nil
		},
	}
}
