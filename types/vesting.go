package types

import (
	"github.com/holiman/uint256"
)

type VestingSchedule struct {
	Beneficiary   string
	StartTime     uint64
	CliffTime     uint64
	EndTime       uint64
	TotalAmount   *uint256.Int
	ClaimedAmount *uint256.Int
	LastClaimTime *uint64
}

func (s *VestingSchedule) Clone() *VestingSchedule {
	cp := *s
	cp.TotalAmount = new(uint256.Int).Set(s.TotalAmount)
	cp.ClaimedAmount = new(uint256.Int).Set(s.ClaimedAmount)
	if s.LastClaimTime != nil {
		t := *s.LastClaimTime
		cp.LastClaimTime = &t
	}
	return &cp
}
