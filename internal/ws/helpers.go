package ws

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// newConnID mints the opaque id a connection keeps for its whole
// lifetime, across the waiting pool, session member lists and the hub.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
