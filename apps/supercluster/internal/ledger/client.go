package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/assets"
	"supercluster/apps/supercluster/internal/model"
)

const (
	CreateRequestGasLimit = uint64(300000)
	ClaimRequestGasLimit  = uint64(200000)
)

// WithdrawalQueue ABI. The getRequest output order is part of the wire
// contract with the chain; reordering the fields breaks decoding.
const WithdrawalQueueABI = `[
	{
		"inputs": [{"internalType": "address", "name": "account", "type": "address"}],
		"name": "getRequestIdsOf",
		"outputs": [{"internalType": "uint256[]", "name": "", "type": "uint256[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "requestId", "type": "uint256"}],
		"name": "getRequest",
		"outputs": [
			{"internalType": "address", "name": "owner", "type": "address"},
			{"internalType": "uint256", "name": "shareAmount", "type": "uint256"},
			{"internalType": "uint256", "name": "baseAmount", "type": "uint256"},
			{"internalType": "uint256", "name": "requestedAt", "type": "uint256"},
			{"internalType": "uint256", "name": "availableAt", "type": "uint256"},
			{"internalType": "bool", "name": "finalized", "type": "bool"},
			{"internalType": "bool", "name": "claimed", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "target", "type": "address"},
			{"internalType": "address", "name": "token", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"}
		],
		"name": "createWithdrawalRequest",
		"outputs": [{"internalType": "uint256", "name": "requestId", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "requestId", "type": "uint256"}],
		"name": "claimWithdrawalRequest",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// ERC20 ABI for balanceOf function
const ERC20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "balance", "type": "uint256"}],
		"type": "function"
	}
]`

// Client talks to the withdrawal queue and receipt token contracts.
type Client struct {
	eth          *ethclient.Client
	logger       *zap.Logger
	queueABI     abi.ABI
	erc20ABI     abi.ABI
	queueAddress common.Address
	susdcAddress common.Address
	chainID      *big.Int
	signerKey    *ecdsa.PrivateKey
	signerAddr   common.Address
}

// NewClient connects to the RPC endpoint and verifies it serves the
// configured chain. A mismatched network is a startup failure, not a
// per-call condition.
func NewClient(rpcURL, signerKey string, chainID int64, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum client: %w", err)
	}

	remoteChainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to query chain id: %w", err)
	}
	if remoteChainID.Int64() != chainID {
		return nil, fmt.Errorf("rpc endpoint serves chain %d, expected %d", remoteChainID.Int64(), chainID)
	}

	parsedQueueABI, err := abi.JSON(strings.NewReader(WithdrawalQueueABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse withdrawal queue ABI: %w", err)
	}

	parsedERC20ABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(signerKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	return &Client{
		eth:          client,
		logger:       logger,
		queueABI:     parsedQueueABI,
		erc20ABI:     parsedERC20ABI,
		queueAddress: common.HexToAddress(assets.WithdrawalQueueContractAddress),
		susdcAddress: assets.SUSDCAddress,
		chainID:      big.NewInt(chainID),
		signerKey:    key,
		signerAddr:   crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// RequestIdsOf returns the withdrawal request ids owned by the account, as
// reported by the chain. The list may contain duplicates; callers dedupe.
func (c *Client) RequestIdsOf(ctx context.Context, account common.Address) ([]uint64, error) {
	data, err := c.queueABI.Pack("getRequestIdsOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getRequestIdsOf call: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.queueAddress,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call getRequestIdsOf: %w", err)
	}

	var rawIds []*big.Int
	if err := c.queueABI.UnpackIntoInterface(&rawIds, "getRequestIdsOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack getRequestIdsOf result: %w", err)
	}

	ids := make([]uint64, 0, len(rawIds))
	for _, id := range rawIds {
		ids = append(ids, id.Uint64())
	}
	return ids, nil
}

// RequestByID fetches the full request record for a single id.
func (c *Client) RequestByID(ctx context.Context, id uint64) (model.WithdrawalRequest, error) {
	data, err := c.queueABI.Pack("getRequest", new(big.Int).SetUint64(id))
	if err != nil {
		return model.WithdrawalRequest{}, fmt.Errorf("failed to pack getRequest call: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.queueAddress,
		Data: data,
	}, nil)
	if err != nil {
		return model.WithdrawalRequest{}, fmt.Errorf("failed to call getRequest: %w", err)
	}

	var record struct {
		Owner       common.Address
		ShareAmount *big.Int
		BaseAmount  *big.Int
		RequestedAt *big.Int
		AvailableAt *big.Int
		Finalized   bool
		Claimed     bool
	}
	if err := c.queueABI.UnpackIntoInterface(&record, "getRequest", result); err != nil {
		return model.WithdrawalRequest{}, fmt.Errorf("failed to unpack getRequest result: %w", err)
	}

	return model.WithdrawalRequest{
		ID:          id,
		Owner:       record.Owner,
		ShareAmount: record.ShareAmount,
		BaseAmount:  record.BaseAmount,
		RequestedAt: record.RequestedAt.Uint64(),
		AvailableAt: record.AvailableAt.Uint64(),
		Finalized:   record.Finalized,
		Claimed:     record.Claimed,
	}, nil
}

// ReceiptBalanceOf returns the account's sUSDC balance in integer units.
func (c *Client) ReceiptBalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	data, err := c.erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.susdcAddress,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	var balance *big.Int
	if err := c.erc20ABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result: %w", err)
	}
	return balance, nil
}

// CreateWithdrawalRequest sends the withdrawal-creation transaction and
// waits for it to be mined. The receipt carries the WithdrawalRequested
// event from which the new request id is recovered.
func (c *Client) CreateWithdrawalRequest(ctx context.Context, target, token common.Address, shareAmount *big.Int) (*types.Receipt, error) {
	data, err := c.queueABI.Pack("createWithdrawalRequest", target, token, shareAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack createWithdrawalRequest method: %w", err)
	}

	return c.sendAndWait(ctx, data, CreateRequestGasLimit)
}

// ClaimWithdrawalRequest sends the claim transaction for a single request id
// and waits for it to be mined.
func (c *Client) ClaimWithdrawalRequest(ctx context.Context, requestID uint64) (*types.Receipt, error) {
	data, err := c.queueABI.Pack("claimWithdrawalRequest", new(big.Int).SetUint64(requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack claimWithdrawalRequest method: %w", err)
	}

	return c.sendAndWait(ctx, data, ClaimRequestGasLimit)
}

// SignerAddress is the account this client submits transactions as.
func (c *Client) SignerAddress() common.Address {
	return c.signerAddr
}

// QueueAddress is the withdrawal queue contract address.
func (c *Client) QueueAddress() common.Address {
	return c.queueAddress
}

func (c *Client) sendAndWait(ctx context.Context, data []byte, gasLimit uint64) (*types.Receipt, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.signerAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce from blockchain: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price from blockchain: %w", err)
	}

	tx := types.NewTransaction(nonce, c.queueAddress, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.signerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Info("Submitted transaction",
		zap.String("tx_hash", signedTx.Hash().Hex()),
		zap.Uint64("nonce", nonce))

	receipt, err := bind.WaitMined(ctx, c.eth, signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", signedTx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("transaction %s reverted", signedTx.Hash().Hex())
	}

	return receipt, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}
