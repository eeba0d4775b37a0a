package eth

import (
	"math/big"
)

// GetChainIntFromId maps a chain name to its EIP-155 id. It returns nil for unknown chains.
func GetChainIntFromId(chain string) *big.Int {
	switch chain {
	case "eth":
		return big.NewInt(1)
	case "goerli-testnet":
		return big.NewInt(5)
	case "sepolia-testnet":
		return big.NewInt(11155111)
	case "binance":
		return big.NewInt(56)
	case "binance-testnet":
		return big.NewInt(97)
	case "xdai":
		return big.NewInt(100)
	case "polygon":
		return big.NewInt(137)
	case "fantom-testnet":
		return big.NewInt(4002)
	case "polygon-testnet", "mumbai":
		return big.NewInt(80001)
	case "arbitrum-testnet":
		return big.NewInt(421611)
	case "avaxc-testnet":
		return big.NewInt(43113)
	default:
		return nil
	}
}
