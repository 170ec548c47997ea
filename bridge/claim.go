package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/telemetry"
)

// poll outcome for a single indexer lookup. "still waiting" is an ordinary
// result here, not an error, so the loop and its tests stay deterministic
type claimPollStatus int

const (
	claimPending claimPollStatus = iota
	claimReady
	claimAlreadyDone
	claimRejected
)

type claimPollResult struct {
	status        claimPollStatus
	claim         *WithdrawalClaim
	claimedTxHash string
}

var errClaimPending = errors.New("withdrawal claim not available yet")

// WithdrawalClaimer polls the withdrawal indexer until the bridge has
// finalized a withdrawal and then relays the claim on the base chain
type WithdrawalClaimer struct {
	indexer      IWithdrawalIndexer
	l1           IL1BridgeOperations
	pollInterval time.Duration
	maxAttempts  uint64
	logger       hclog.Logger
}

var _ IWithdrawalClaimer = (*WithdrawalClaimer)(nil)

// NewWithdrawalClaimer creates a claimer. maxAttempts zero means the poll
// loop runs until the context is cancelled
func NewWithdrawalClaimer(
	indexer IWithdrawalIndexer, l1 IL1BridgeOperations,
	pollInterval time.Duration, maxAttempts uint64, logger hclog.Logger,
) *WithdrawalClaimer {
	return &WithdrawalClaimer{
		indexer:      indexer,
		l1:           l1,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

func (c *WithdrawalClaimer) ClaimWithdrawal(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, withdrawTxHash string,
) (string, error) {
	var result claimPollResult

	backoff := retry.NewConstant(c.pollInterval)
	if c.maxAttempts > 0 {
		backoff = retry.WithMaxRetries(c.maxAttempts, backoff)
	}

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		telemetry.UpdateClaimPollCounter(1)

		res, err := c.poll(ctx, wallet.GetAddressHex(), withdrawTxHash)
		if err != nil {
			if common.IsContextDoneErr(err) {
				return err
			}

			c.logger.Warn("withdrawal lookup failed, retrying", "err", err)

			return retry.RetryableError(err)
		}

		if res.status == claimPending {
			c.logger.Debug("withdrawal not claimable yet", "hash", withdrawTxHash)

			return retry.RetryableError(errClaimPending)
		}

		result = res

		return nil
	})
	if err != nil {
		return "", NewBridgingError("waiting for withdrawal "+withdrawTxHash+" to become claimable", err)
	}

	switch result.status {
	case claimAlreadyDone:
		// the withdrawal was claimed in a previous run, nothing to submit
		c.logger.Info("withdrawal already claimed", "hash", withdrawTxHash, "claim", result.claimedTxHash)

		return result.claimedTxHash, nil
	case claimRejected:
		return "", NewBridgingError("bridge rejected the claim for withdrawal "+withdrawTxHash, nil)
	default:
		claimHash, err := c.l1.RelayWithdrawal(ctx, wallet, result.claim)
		if err == nil {
			telemetry.UpdateClaimSubmitted()
		}

		return claimHash, err
	}
}

func (c *WithdrawalClaimer) poll(
	ctx context.Context, address, withdrawTxHash string,
) (claimPollResult, error) {
	records, err := c.indexer.GetWithdrawals(ctx, address)
	if err != nil {
		return claimPollResult{}, err
	}

	for _, record := range records {
		if !strings.EqualFold(record.Hash, withdrawTxHash) {
			continue
		}

		if record.CounterpartTx.Hash != "" {
			return claimPollResult{status: claimAlreadyDone, claimedTxHash: record.CounterpartTx.Hash}, nil
		}

		if record.ClaimInfo == nil {
			return claimPollResult{status: claimPending}, nil
		}

		if !record.ClaimInfo.Claimable {
			return claimPollResult{status: claimRejected}, nil
		}

		claim, err := record.ClaimInfo.ToClaim()
		if err != nil {
			return claimPollResult{}, err
		}

		return claimPollResult{status: claimReady, claim: claim}, nil
	}

	return claimPollResult{status: claimPending}, nil
}
