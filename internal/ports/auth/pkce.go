package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofrs/uuid"
)

// PKCE is a proof-key pair for the manual OAuth flow: the verifier
// stays on this client, the S256 challenge goes into the authorize URL.
type PKCE struct {
	Verifier  string
	Challenge string
}

// NewPKCE generates a fresh verifier and its S256 challenge.
func NewPKCE() PKCE {
	v := uuid.Must(uuid.NewV4()).String() + uuid.Must(uuid.NewV4()).String()
	sum := sha256.Sum256([]byte(v))
	return PKCE{
		Verifier:  v,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}
}
