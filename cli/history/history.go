package clihistory

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/pipeline"
)

const (
	stateDirFlag     = "state-dir"
	stateDirFlagDesc = "directory holding the run history db"
)

var historyParamsData = &historyParams{}

func GetHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Short:   "lists the archived verification runs",
		PreRunE: runPreRun,
		Run:     common.GetCliRunCommand(historyParamsData),
	}

	historyParamsData.setFlags(cmd)

	return cmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return historyParamsData.ValidateFlags()
}

type historyParams struct {
	stateDir string
}

func (ip *historyParams) ValidateFlags() error {
	if ip.stateDir == "" {
		return fmt.Errorf("--%s not specified", stateDirFlag)
	}

	return nil
}

func (ip *historyParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.stateDir,
		stateDirFlag,
		".",
		stateDirFlagDesc,
	)
}

func (ip *historyParams) Execute(_ common.OutputFormatter) (common.ICommandResult, error) {
	history, err := pipeline.NewHistoryDB(ip.stateDir)
	if err != nil {
		return nil, err
	}

	defer func() { _ = history.Close() }()

	records, err := history.List()
	if err != nil {
		return nil, err
	}

	return &CmdResult{Records: records}, nil
}
