package cliteste2e

import (
	"github.com/spf13/cobra"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

var testE2EParamsData = &testE2EParams{}

func GetTestE2ECommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "test-e2e",
		Short:   "runs the full bridge verification sequence against a deployed rollup",
		PreRunE: runPreRun,
		Run:     common.GetCliRunCommand(testE2EParamsData),
	}

	testE2EParamsData.setFlags(cmd)

	return cmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return testE2EParamsData.ValidateFlags()
}
