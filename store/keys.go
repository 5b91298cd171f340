package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mezonai/tokencore/db"
)

// Numbers inside keys are fixed-width lowercase hex so that byte order of
// keys equals numeric order.

func hex16(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

func hex8(v uint32) string {
	return fmt.Sprintf("%08x", v)
}

func joinKey(parts ...string) []byte {
	return []byte(strings.Join(parts, KeySeparator))
}

func balancePrefix(addr string) []byte {
	return []byte(PrefixBalance + addr + KeySeparator)
}

func balanceKey(addr string, height uint64, seq uint32) []byte {
	return joinKey(PrefixBalance+addr, hex16(height), hex8(seq))
}

// parseBalanceKey extracts height and seq from bal:<addr>:<h16>:<seq8>.
func parseBalanceKey(key []byte) (height uint64, seq uint32, err error) {
	parts := strings.Split(string(key), KeySeparator)
	if len(parts) != 4 {
		return 0, 0, fmt.Errorf("malformed balance key %q", key)
	}
	height, err = strconv.ParseUint(parts[2], 16, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed height in balance key %q: %w", key, err)
	}
	s, err := strconv.ParseUint(parts[3], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed seq in balance key %q: %w", key, err)
	}
	return height, uint32(s), nil
}

func txMetaKey(addr string, nonce uint64) []byte {
	return joinKey(PrefixTxMeta+addr, hex16(nonce))
}

func txTimePrefix(addr string) []byte {
	return []byte(PrefixTxTime + addr + KeySeparator)
}

func txTimeKey(addr string, ts, nonce uint64) []byte {
	return joinKey(PrefixTxTime+addr, hex16(ts), hex16(nonce))
}

func nonceKey(addr string) []byte {
	return []byte(PrefixNonce + addr)
}

func receiptPrefix(addr string) []byte {
	return []byte(PrefixReceipt + addr + KeySeparator)
}

func receiptKey(addr string, ts, height uint64) []byte {
	return joinKey(PrefixReceipt+addr, hex16(ts), hex16(height))
}

func blockSenderPrefix(height uint64) []byte {
	return []byte(PrefixBlockSender + hex16(height) + KeySeparator)
}

func blockSenderKey(height uint64, addr string) []byte {
	return joinKey(PrefixBlockSender+hex16(height), addr)
}

func vestingKey(addr string) []byte {
	return []byte(PrefixVesting + addr)
}

func allowanceKey(owner, spender string) []byte {
	return joinKey(PrefixAllowance+owner, spender)
}

func signerKey(addr string) []byte {
	return []byte(PrefixSigner + addr)
}

// timeRange returns the [start, limit) bounds covering timestamps
// from..to inclusive under prefix, where keys continue as <ts16>:...
func timeRange(prefix []byte, from, to uint64) (start, limit []byte) {
	start = append(append([]byte(nil), prefix...), hex16(from)...)
	if to == math.MaxUint64 {
		return start, db.PrefixLimit(prefix)
	}
	limit = append(append([]byte(nil), prefix...), hex16(to+1)...)
	return start, limit
}
