package types

// SignatureScheme names the algorithm a registered signer key belongs to.
type SignatureScheme string

const (
	SchemeEd25519   SignatureScheme = "ed25519"
	SchemeSecp256k1 SignatureScheme = "secp256k1"
)

func (s SignatureScheme) Valid() bool {
	return s == SchemeEd25519 || s == SchemeSecp256k1
}

// SignerKey is the persisted public key an address signs with.
type SignerKey struct {
	Address   string
	Scheme    SignatureScheme
	PublicKey []byte
}
