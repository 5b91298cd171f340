package store

import (
	"github.com/mezonai/tokencore/db"
)

// Stores bundles every typed store over one provider. Operations build a
// Stores over their overlay so all writes share one commit.
type Stores struct {
	Config     ConfigStore
	Balances   BalanceStore
	TxRecords  TxRecordStore
	Nonces     NonceStore
	Receipts   ReceiptStore
	Activity   ActivityStore
	Vesting    VestingStore
	Allowances AllowanceStore
	Signers    SignerStore
}

func NewStores(provider db.IterableProvider) *Stores {
	return &Stores{
		Config:     NewGenericConfigStore(provider),
		Balances:   NewGenericBalanceStore(provider),
		TxRecords:  NewGenericTxRecordStore(provider),
		Nonces:     NewGenericNonceStore(provider),
		Receipts:   NewGenericReceiptStore(provider),
		Activity:   NewGenericActivityStore(provider),
		Vesting:    NewGenericVestingStore(provider),
		Allowances: NewGenericAllowanceStore(provider),
		Signers:    NewGenericSignerStore(provider),
	}
}
