package auth

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/utils"
)

// Signed messages are plain byte concatenations so off-chain signers can
// rebuild them. Addresses are raw UTF-8, amounts 16-byte big-endian, and
// nonces and timestamps 8-byte big-endian.

// TransferMessage is sender | recipient | amount | nonce
func TransferMessage(sender, recipient string, amount *uint256.Int, nonce uint64) []byte {
	msg := make([]byte, 0, len(sender)+len(recipient)+utils.AmountBytes+8)
	msg = append(msg, sender...)
	msg = append(msg, recipient...)
	msg = append(msg, utils.AmountToBytes(amount)...)
	msg = append(msg, utils.Uint64ToBytes(nonce)...)
	return msg
}

// VestingMessage is caller | beneficiary | amount | start | end
func VestingMessage(caller, beneficiary string, amount *uint256.Int, start, end uint64) []byte {
	msg := make([]byte, 0, len(caller)+len(beneficiary)+utils.AmountBytes+16)
	msg = append(msg, caller...)
	msg = append(msg, beneficiary...)
	msg = append(msg, utils.AmountToBytes(amount)...)
	msg = append(msg, utils.Uint64ToBytes(start)...)
	msg = append(msg, utils.Uint64ToBytes(end)...)
	return msg
}

// ApproveMessage is owner | spender | amount | nonce
func ApproveMessage(owner, spender string, amount *uint256.Int, nonce uint64) []byte {
	msg := make([]byte, 0, len(owner)+len(spender)+utils.AmountBytes+8)
	msg = append(msg, owner...)
	msg = append(msg, spender...)
	msg = append(msg, utils.AmountToBytes(amount)...)
	msg = append(msg, utils.Uint64ToBytes(nonce)...)
	return msg
}
