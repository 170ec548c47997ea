package cliteste2e

import (
	"bytes"
	"fmt"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/config"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/pipeline"
)

type stageSummary struct {
	Name   string
	Link   string
	Detail string
}

type CmdResult struct {
	Identity     string
	IdentityLink string
	Stages       []stageSummary
}

func newCmdResult(cfg *config.Config, state *pipeline.PipelineState) *CmdResult {
	// stages driving an l2 transaction link to the l2 explorer, the rest to l1
	l2Stages := map[pipeline.StageName]bool{
		pipeline.StageAwaitNativeDepositOnL2: true,
		pipeline.StageBridgeNativeL2ToL1:     true,
		pipeline.StageDeployTokenL2:          true,
		pipeline.StageAwaitTokenDepositOnL2:  true,
		pipeline.StageBridgeTokenL2ToL1:      true,
	}

	result := &CmdResult{
		Identity:     state.Identity.Address,
		IdentityLink: common.ExplorerAddressURL(cfg.L1.ExplorerURL, state.Identity.Address),
	}

	for _, name := range pipeline.StageOrder {
		record, exists := state.Stages[name]
		if !exists || !record.Completed {
			continue
		}

		explorerURL := cfg.L1.ExplorerURL
		if l2Stages[name] {
			explorerURL = cfg.L2.ExplorerURL
		}

		summary := stageSummary{Name: string(name)}

		switch {
		case record.TxHash != "":
			summary.Link = common.ExplorerTxURL(explorerURL, record.TxHash)
		case record.ContractAddress != "":
			summary.Link = common.ExplorerAddressURL(explorerURL, record.ContractAddress)
		default:
			summary.Link = "done"
		}

		if record.Method != "" {
			summary.Detail = record.Method
		} else if record.Amount != nil {
			summary.Detail = record.Amount.String() + " wei"
		}

		result.Stages = append(result.Stages, summary)
	}

	return result
}

func (r CmdResult) GetOutput() string {
	var buffer bytes.Buffer

	kvPairs := []string{
		fmt.Sprintf("Test Identity|%s", r.IdentityLink),
	}

	for _, stage := range r.Stages {
		kvPairs = append(kvPairs, fmt.Sprintf("%s|%s", stage.Name, stage.Link))

		if stage.Detail != "" {
			kvPairs = append(kvPairs, fmt.Sprintf("  amount/method|%s", stage.Detail))
		}
	}

	buffer.WriteString("Bridge verification finished\n")
	buffer.WriteString(common.FormatKV(kvPairs))

	return buffer.String()
}
