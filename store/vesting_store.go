package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/jsonx"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// VestingStore keeps each beneficiary's ordered schedule list.
// Keys: PrefixVesting + <addr> => JSON list
type VestingStore interface {
	List(addr string) ([]*types.VestingSchedule, error)
	Put(addr string, schedules []*types.VestingSchedule) error
}

type scheduleRecord struct {
	Beneficiary   string  `json:"beneficiary"`
	StartTime     uint64  `json:"start_time"`
	CliffTime     uint64  `json:"cliff_time"`
	EndTime       uint64  `json:"end_time"`
	TotalAmount   string  `json:"total_amount"`
	ClaimedAmount string  `json:"claimed_amount"`
	LastClaimTime *uint64 `json:"last_claim_time,omitempty"`
}

type GenericVestingStore struct {
	provider db.DatabaseProvider
}

func NewGenericVestingStore(provider db.DatabaseProvider) *GenericVestingStore {
	return &GenericVestingStore{provider: provider}
}

// List returns the schedules of addr in creation order, empty when none
func (s *GenericVestingStore) List(addr string) ([]*types.VestingSchedule, error) {
	data, err := s.provider.Get(vestingKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get vesting schedules for %s: %w", addr, err)
	}
	if data == nil {
		return []*types.VestingSchedule{}, nil
	}

	var records []scheduleRecord
	if err := jsonx.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vesting schedules for %s: %w", addr, err)
	}
	out := make([]*types.VestingSchedule, 0, len(records))
	for _, r := range records {
		out = append(out, &types.VestingSchedule{
			Beneficiary:   r.Beneficiary,
			StartTime:     r.StartTime,
			CliffTime:     r.CliffTime,
			EndTime:       r.EndTime,
			TotalAmount:   utils.Uint256FromString(r.TotalAmount),
			ClaimedAmount: utils.Uint256FromString(r.ClaimedAmount),
			LastClaimTime: r.LastClaimTime,
		})
	}
	return out, nil
}

func (s *GenericVestingStore) Put(addr string, schedules []*types.VestingSchedule) error {
	records := make([]scheduleRecord, 0, len(schedules))
	for _, sc := range schedules {
		records = append(records, scheduleRecord{
			Beneficiary:   sc.Beneficiary,
			StartTime:     sc.StartTime,
			CliffTime:     sc.CliffTime,
			EndTime:       sc.EndTime,
			TotalAmount:   utils.Uint256ToString(sc.TotalAmount),
			ClaimedAmount: utils.Uint256ToString(sc.ClaimedAmount),
			LastClaimTime: sc.LastClaimTime,
		})
	}
	data, err := jsonx.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal vesting schedules for %s: %w", addr, err)
	}
	if err := s.provider.Put(vestingKey(addr), data); err != nil {
		return fmt.Errorf("failed to write vesting schedules for %s: %w", addr, err)
	}
	return nil
}
