package config

import (
	"github.com/mezonai/tokencore/store"
)

const (
	DefaultGenesisPath = "config/genesis.yml"
	DefaultNodePath    = "config/node.ini"
	DefaultDataDir     = "data/tokencore"
	DefaultStoreType   = store.LevelDBStoreType

	SectionStore   = "store"
	SectionVesting = "vesting"
	SectionMetrics = "metrics"
)
