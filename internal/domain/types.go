package domain

import "time"

// Identity is the unique string handle for a user. It is the only identifier
// used for routing and key lookup.
type Identity string

func (i Identity) String() string { return string(i) }

// KeyRecord is a published public key held by the directory. PublicKeyPEM is
// SPKI DER wrapped in standard PEM headers.
type KeyRecord struct {
	Identity     Identity `json:"identity"`
	PublicKeyPEM string   `json:"publicKey"`
	HasPublicKey bool     `json:"hasPublicKey"`
}

// Session is derived once at the connection handshake and is immutable for the
// connection's lifetime.
type Session struct {
	Identity Identity
	Token    string
	Expiry   time.Time
}

// PresenceEntry records a live connection for an identity. At most one entry
// per identity is authoritative for routing.
type PresenceEntry struct {
	Identity Identity
	Handle   string
	Since    time.Time
}

// IncomingText is a received, locally decrypted text message.
type IncomingText struct {
	From Identity
	Text string
}

// IncomingFile is a received, locally decrypted file payload.
type IncomingFile struct {
	From     Identity
	FileName string
	FileType string
	Data     []byte
}
