package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clihistory "github.com/scroll-tech/scroll-sdk-cli-sub000/cli/history"
	cliteste2e "github.com/scroll-tech/scroll-sdk-cli-sub000/cli/teste2e"
	cliversion "github.com/scroll-tech/scroll-sdk-cli-sub000/cli/version"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Short: "cli commands for rollup bridge verification",
		},
	}

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		cliteste2e.GetTestE2ECommand(),
		clihistory.GetHistoryCommand(),
		cliversion.GetVersionCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
