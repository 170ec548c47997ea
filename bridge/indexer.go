package bridge

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	infracommon "github.com/Ethernal-Tech/cardano-infrastructure/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

// withdrawal indexer api wire types

type CounterpartTx struct {
	Hash string `json:"hash"`
}

type ClaimProof struct {
	BatchIndex  string `json:"batch_index"`
	MerkleProof string `json:"merkle_proof"`
}

type ClaimInfo struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Value     string     `json:"value"`
	Nonce     string     `json:"nonce"`
	Message   string     `json:"message"`
	Proof     ClaimProof `json:"proof"`
	Claimable bool       `json:"claimable"`
}

type WithdrawalRecord struct {
	Hash           string        `json:"hash"`
	Amount         string        `json:"amount"`
	CounterpartTx  CounterpartTx `json:"counterpart_chain_tx"`
	ClaimInfo      *ClaimInfo    `json:"claim_info"`
	BlockTimestamp uint64        `json:"block_timestamp"`
}

type withdrawalsData struct {
	Results []WithdrawalRecord `json:"results"`
	Total   uint64             `json:"total"`
}

type withdrawalsResponse struct {
	ErrCode int             `json:"errcode"`
	ErrMsg  string          `json:"errmsg"`
	Data    withdrawalsData `json:"data"`
}

// WithdrawalIndexClient queries the bridge indexing api for withdrawal
// records tied to a user address
type WithdrawalIndexClient struct {
	baseURL string
	logger  hclog.Logger
}

var _ IWithdrawalIndexer = (*WithdrawalIndexClient)(nil)

func NewWithdrawalIndexClient(baseURL string, logger hclog.Logger) *WithdrawalIndexClient {
	return &WithdrawalIndexClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

func (c *WithdrawalIndexClient) GetWithdrawals(
	ctx context.Context, address string,
) ([]WithdrawalRecord, error) {
	url := fmt.Sprintf("%s/l2/withdrawals?address=%s&page=1&page_size=100", c.baseURL, address)

	response, err := infracommon.ExecuteWithRetry(ctx,
		func(ctx context.Context) (withdrawalsResponse, error) {
			return common.HTTPGet[withdrawalsResponse](ctx, url)
		})
	if err != nil {
		return nil, NewNetworkError(c.baseURL, err)
	}

	if response.ErrCode != 0 {
		return nil, NewBridgingError(
			fmt.Sprintf("withdrawal indexer returned error %d: %s", response.ErrCode, response.ErrMsg), nil)
	}

	c.logger.Debug("withdrawals fetched", "address", address, "count", len(response.Data.Results))

	return response.Data.Results, nil
}

// ToClaim converts the indexer claim info into the typed form consumed by
// the L1 messenger relay call
func (ci *ClaimInfo) ToClaim() (*WithdrawalClaim, error) {
	value, err := parseBigInt(ci.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid claim value %s: %w", ci.Value, err)
	}

	nonce, err := parseBigInt(ci.Nonce)
	if err != nil {
		return nil, fmt.Errorf("invalid claim nonce %s: %w", ci.Nonce, err)
	}

	batchIndex, err := parseBigInt(ci.Proof.BatchIndex)
	if err != nil {
		return nil, fmt.Errorf("invalid claim batch index %s: %w", ci.Proof.BatchIndex, err)
	}

	message, err := common.DecodeHex(ci.Message)
	if err != nil {
		return nil, fmt.Errorf("invalid claim message: %w", err)
	}

	merkleProof, err := common.DecodeHex(ci.Proof.MerkleProof)
	if err != nil {
		return nil, fmt.Errorf("invalid claim merkle proof: %w", err)
	}

	return &WithdrawalClaim{
		From:        ethcommon.HexToAddress(ci.From),
		To:          ethcommon.HexToAddress(ci.To),
		Value:       value,
		Nonce:       nonce,
		Message:     message,
		BatchIndex:  batchIndex,
		MerkleProof: merkleProof,
		Claimable:   ci.Claimable,
	}, nil
}

func parseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("not a valid integer")
	}

	return v, nil
}
