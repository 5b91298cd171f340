package service

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/types"
)

// Version is stamped into the config singleton at instantiation
const Version = "tokencore/1"

type GenesisBalance struct {
	Address string
	Amount  *uint256.Int
}

// InstantiateRequest seeds a fresh ledger. A zero Token.TotalSupply is
// replaced by the sum of Balances.
type InstantiateRequest struct {
	Token    types.TokenConfig
	Risk     types.RiskParameters
	Balances []GenesisBalance
	Signers  []types.SignerKey
}

type TransferRequest struct {
	Sender    string
	Recipient string
	Amount    *uint256.Int
	Nonce     *uint64 // optional, must equal the sender's current nonce when set
	Signature []byte
}

type VestingRequest struct {
	Caller      string
	Beneficiary string
	Amount      *uint256.Int
	Start       uint64
	Cliff       uint64
	End         uint64
	Signature   []byte
}

type ApproveRequest struct {
	Owner     string
	Spender   string
	Amount    *uint256.Int
	Nonce     *uint64
	Signature []byte
}
