package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// WithdrawalRequestedSig identifies the event emitted by the queue when a
// request is created: WithdrawalRequested(uint256 indexed requestId,
// address indexed account, uint256 shareAmount).
var WithdrawalRequestedSig = crypto.Keccak256Hash([]byte("WithdrawalRequested(uint256,address,uint256)"))

// DecodeRequestID scans a mined receipt for the WithdrawalRequested event
// belonging to account and returns the new request id. The account match is
// case-insensitive on the hex form. A receipt without a matching event is
// not an error: the request exists on chain and will show up on the next
// list re-fetch, so the id is simply reported unknown.
func DecodeRequestID(receipt *types.Receipt, queueAddress, account common.Address) (uint64, bool) {
	if receipt == nil {
		return 0, false
	}

	for _, eventLog := range receipt.Logs {
		if eventLog.Address != queueAddress {
			continue
		}
		if len(eventLog.Topics) < 3 || eventLog.Topics[0] != WithdrawalRequestedSig {
			continue
		}

		// Topics[1] is requestId, Topics[2] is account.
		eventAccount := common.BytesToAddress(eventLog.Topics[2].Bytes())
		if !strings.EqualFold(eventAccount.Hex(), account.Hex()) {
			continue
		}

		return eventLog.Topics[1].Big().Uint64(), true
	}

	return 0, false
}
