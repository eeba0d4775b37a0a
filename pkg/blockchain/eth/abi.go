package eth

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The subset of the TokenERC721 interface used to mint with a signature and to read the
// collection.
const tokenERC721ABI = `[
  {
    "type": "function",
    "name": "mintWithSignature",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "_req",
        "type": "tuple",
        "internalType": "struct ITokenERC721.MintRequest",
        "components": [
          {"name": "to", "type": "address"},
          {"name": "royaltyRecipient", "type": "address"},
          {"name": "royaltyBps", "type": "uint256"},
          {"name": "primarySaleRecipient", "type": "address"},
          {"name": "uri", "type": "string"},
          {"name": "price", "type": "uint256"},
          {"name": "currency", "type": "address"},
          {"name": "validityStartTimestamp", "type": "uint128"},
          {"name": "validityEndTimestamp", "type": "uint128"},
          {"name": "uid", "type": "bytes32"}
        ]
      },
      {"name": "_signature", "type": "bytes"}
    ],
    "outputs": [{"name": "tokenIdMinted", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "nextTokenIdToMint",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "ownerOf",
    "stateMutability": "view",
    "inputs": [{"name": "tokenId", "type": "uint256"}],
    "outputs": [{"name": "", "type": "address"}]
  },
  {
    "type": "function",
    "name": "tokenURI",
    "stateMutability": "view",
    "inputs": [{"name": "_tokenId", "type": "uint256"}],
    "outputs": [{"name": "", "type": "string"}]
  },
  {
    "type": "event",
    "name": "Transfer",
    "anonymous": false,
    "inputs": [
      {"name": "from", "type": "address", "indexed": true},
      {"name": "to", "type": "address", "indexed": true},
      {"name": "tokenId", "type": "uint256", "indexed": true}
    ]
  }
]`

var (
	tokenABI      abi.ABI
	transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

func init() {
	var err error
	tokenABI, err = abi.JSON(strings.NewReader(tokenERC721ABI))
	if err != nil {
		panic(err)
	}
}

// mintRequest mirrors the MintRequest tuple of TokenERC721.
type mintRequest struct {
	To                     common.Address
	RoyaltyRecipient       common.Address
	RoyaltyBps             *big.Int
	PrimarySaleRecipient   common.Address
	Uri                    string
	Price                  *big.Int
	Currency               common.Address
	ValidityStartTimestamp *big.Int
	ValidityEndTimestamp   *big.Int
	Uid                    [32]byte
}
