package signer

// Signer interface for signing comparison artifacts
type Signer interface {
	// SignDetached creates an armored detached signature (for <artifact>.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the public key
	GetPublicKey() ([]byte, error)
}
