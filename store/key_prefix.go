package store

// Declare database key prefix for objects
const (
	KeyConfig     = "config"
	KeyRiskParams = "risk_params"
	KeyHead       = "head"

	PrefixBalance     = "bal:"
	PrefixTxMeta      = "txm:"
	PrefixTxTime      = "txt:"
	PrefixNonce       = "nonce:"
	PrefixReceipt     = "rcv:"
	PrefixBlockSender = "blk_sender:"
	PrefixVesting     = "vest:"
	PrefixAllowance   = "allow:"
	PrefixSigner      = "signer:"
)

// KeySeparator joins key segments. Addresses never contain it.
const KeySeparator = ":"
