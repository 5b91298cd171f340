package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// ComputeDeltaHash computes a deterministic digest over the snapshots an
// operation wrote. Each record is encoded as:
// len(address)|address|height(8B BE)|seq(4B BE)|balance(16B BE)
// Records are sorted by (address, height, seq).
func ComputeDeltaHash(snapshots []types.BalanceSnapshot) [32]byte {
	if len(snapshots) == 0 {
		return [32]byte{}
	}
	sorted := make([]types.BalanceSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.Seq < b.Seq
	})

	h := sha256.New()
	buf := make([]byte, 8)
	for _, snap := range sorted {
		binary.BigEndian.PutUint64(buf, uint64(len(snap.Account)))
		h.Write(buf)
		h.Write([]byte(snap.Account))
		binary.BigEndian.PutUint64(buf, snap.Height)
		h.Write(buf)
		binary.BigEndian.PutUint32(buf[:4], snap.Seq)
		h.Write(buf[:4])
		h.Write(utils.AmountToBytes(snap.Balance))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
