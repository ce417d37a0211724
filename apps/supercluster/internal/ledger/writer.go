package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SubmitWithdrawalRequest creates a withdrawal request and recovers the new
// request id from the mined receipt. A missing event yields known=false, not
// an error.
func (c *Client) SubmitWithdrawalRequest(ctx context.Context, account, target, token common.Address, shareAmount *big.Int) (uint64, bool, error) {
	receipt, err := c.CreateWithdrawalRequest(ctx, target, token, shareAmount)
	if err != nil {
		return 0, false, err
	}

	requestID, known := DecodeRequestID(receipt, c.queueAddress, account)
	if !known {
		c.logger.Warn("No WithdrawalRequested event matched the account",
			zap.String("account", account.Hex()),
			zap.String("tx_hash", receipt.TxHash.Hex()))
	}
	return requestID, known, nil
}

// SubmitClaim claims a finalized withdrawal request.
func (c *Client) SubmitClaim(ctx context.Context, requestID uint64) error {
	_, err := c.ClaimWithdrawalRequest(ctx, requestID)
	return err
}
