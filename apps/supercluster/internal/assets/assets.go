package assets

import "github.com/ethereum/go-ethereum/common"

// Asset represents a token handled by the protocol
type Asset struct {
	Symbol  string         `json:"symbol"`
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
	// Decimals is the on-chain fixed-point scale, DisplayDecimals the
	// precision amounts are rendered (and accepted as input) with.
	Decimals        int `json:"decimals"`
	DisplayDecimals int `json:"display_decimals"`
}

// AssetRegistry holds all supported assets
type AssetRegistry struct {
	assets    map[string]*Asset
	byAddress map[common.Address]*Asset
}

// NewAssetRegistry creates a new asset registry with all supported assets
func NewAssetRegistry() *AssetRegistry {
	registry := &AssetRegistry{
		assets:    make(map[string]*Asset),
		byAddress: make(map[common.Address]*Asset),
	}

	supportedAssets := []*Asset{
		{
			Symbol:          "USDC",
			Name:            "USD Coin",
			Address:         common.HexToAddress("0x6A2d262D56735DbA19Dd70682B39F6bE9a931D98"),
			Decimals:        18,
			DisplayDecimals: 6,
		},
		{
			Symbol:          "sUSDC",
			Name:            "SuperCluster Staked USDC",
			Address:         common.HexToAddress("0x2B1c7b41f6A8F2b2bc45C3233a5d5FB3cD6dC9A8"),
			Decimals:        18,
			DisplayDecimals: 4,
		},
		{
			Symbol:          "wsUSDC",
			Name:            "Wrapped SuperCluster Staked USDC",
			Address:         common.HexToAddress("0x9F0E8Ad21E80bCc6eDd1eC6E47A76dDbD03E4C97"),
			Decimals:        18,
			DisplayDecimals: 4,
		},
	}

	for _, asset := range supportedAssets {
		registry.assets[asset.Symbol] = asset
		registry.byAddress[asset.Address] = asset
	}

	return registry
}

// GetBySymbol returns an asset by its symbol
func (r *AssetRegistry) GetBySymbol(symbol string) (*Asset, bool) {
	asset, exists := r.assets[symbol]
	return asset, exists
}

// GetByAddress returns an asset by its contract address
func (r *AssetRegistry) GetByAddress(address common.Address) (*Asset, bool) {
	asset, exists := r.byAddress[address]
	return asset, exists
}

// GetAll returns all registered assets
func (r *AssetRegistry) GetAll() map[string]*Asset {
	result := make(map[string]*Asset)
	for symbol, asset := range r.assets {
		result[symbol] = asset
	}
	return result
}

// Global asset registry instance
var GlobalRegistry = NewAssetRegistry()

// Token addresses for convenience
var (
	USDCAddress   = GlobalRegistry.assets["USDC"].Address
	SUSDCAddress  = GlobalRegistry.assets["sUSDC"].Address
	WSUSDCAddress = GlobalRegistry.assets["wsUSDC"].Address
)

// Protocol contract addresses
const (
	WithdrawalQueueContractAddress = "0x4C1b3F5aD0bB71E3c0dEa36fD1dD2bA97cE18A44"
	// DefaultTargetAddress is the allocation target used when a wallet has
	// not selected one.
	DefaultTargetAddress = "0x7E3f1D48Ab2C95Eec53fBD0a8d6cA1b20E94d7F1"
)

// Display-only protocol figures. These are not derived by this service.
const (
	DisplayAPY      = "4.20"
	ProtocolName    = "SuperCluster"
	UnstakingPeriod = "1-5 days"
)
