package pipeline

import (
	"fmt"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

type StageName string

const (
	StageGenerateOrLoadIdentity StageName = "GenerateOrLoadIdentity"
	StageFundL1                 StageName = "FundL1"
	StageBridgeNativeL1ToL2     StageName = "BridgeNativeL1ToL2"
	StageDeployTokenL1          StageName = "DeployTokenL1"
	StageBridgeTokenL1ToL2      StageName = "BridgeTokenL1ToL2"
	StageFundL2                 StageName = "FundL2"
	StageAwaitNativeDepositOnL2 StageName = "AwaitNativeDepositOnL2"
	StageBridgeNativeL2ToL1     StageName = "BridgeNativeL2ToL1"
	StageDeployTokenL2          StageName = "DeployTokenL2"
	StageAwaitTokenDepositOnL2  StageName = "AwaitTokenDepositOnL2"
	StageBridgeTokenL2ToL1      StageName = "BridgeTokenL2ToL1"
	StageClaimNativeOnL1        StageName = "ClaimNativeOnL1"
	StageClaimTokenOnL1         StageName = "ClaimTokenOnL1"
)

// StageOrder is the fixed execution order of the pipeline. A stage may
// only read artifacts from stages that precede it in this order
var StageOrder = []StageName{
	StageGenerateOrLoadIdentity,
	StageFundL1,
	StageBridgeNativeL1ToL2,
	StageDeployTokenL1,
	StageBridgeTokenL1ToL2,
	StageFundL2,
	StageAwaitNativeDepositOnL2,
	StageBridgeNativeL2ToL1,
	StageDeployTokenL2,
	StageAwaitTokenDepositOnL2,
	StageBridgeTokenL2ToL1,
	StageClaimNativeOnL1,
	StageClaimTokenOnL1,
}

// StageResult holds the completion flag and the artifacts a stage captured.
// Once Completed is set the record is never mutated again
type StageResult struct {
	Completed         bool           `json:"completed"`
	TxHash            string         `json:"txHash,omitempty"`
	DestinationTxHash string         `json:"destinationTxHash,omitempty"`
	QueueIndex        *common.BigInt `json:"queueIndex,omitempty"`
	ContractAddress   string         `json:"contractAddress,omitempty"`
	Amount            *common.BigInt `json:"amount,omitempty"`
	Method            string         `json:"method,omitempty"`
}

// Identity is the disposable test account the pipeline drives. The private
// key is persisted only when the pipeline generated it itself
type Identity struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// PipelineState is the single persisted aggregate, one instance per run
type PipelineState struct {
	Identity Identity                   `json:"identity"`
	Stages   map[StageName]*StageResult `json:"stages"`
}

func NewPipelineState() *PipelineState {
	return &PipelineState{
		Stages: map[StageName]*StageResult{},
	}
}

// Stage returns the result record for the given stage, creating it if needed
func (s *PipelineState) Stage(name StageName) *StageResult {
	if s.Stages == nil {
		s.Stages = map[StageName]*StageResult{}
	}

	result, exists := s.Stages[name]
	if !exists {
		result = &StageResult{}
		s.Stages[name] = result
	}

	return result
}

func (s *PipelineState) IsCompleted(name StageName) bool {
	result, exists := s.Stages[name]

	return exists && result != nil && result.Completed
}

// Validate checks that a state loaded from storage is usable as a resume
// point. A state whose stages reference an identity that is missing is
// corrupt, resuming from it would re-spend funds and re-deploy contracts
func (s *PipelineState) Validate() error {
	if s.Stages == nil {
		return fmt.Errorf("missing stages")
	}

	if s.IsCompleted(StageGenerateOrLoadIdentity) && s.Identity.Address == "" {
		return fmt.Errorf("identity stage completed but no identity address recorded")
	}

	for name, result := range s.Stages {
		if result == nil {
			return fmt.Errorf("stage %s has no result record", name)
		}
	}

	return nil
}
