package nullifier

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainLen fixes the relying-party domain encoding: UTF-8, null-padded to
// 32 bytes, matching the on-chain account layout.
const DomainLen = 32

// Record is one registered nullifier. Creation is the only mutation; a
// record at the same key is only ever replaced after it has expired.
type Record struct {
	Id           int    `gorm:"primaryKey;autoIncrement"`
	NullifierKey string `gorm:"uniqueIndex;size:128;not null"`
	Commitment   []byte `gorm:"size:32;not null"`
	Domain       []byte `gorm:"size:32;not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:false"`
	ExpiresAt    int64
}

func (Record) TableName() string {
	return "nullifier_records"
}

func (r Record) Live(now int64) bool {
	return r.ExpiresAt > now
}

// DeriveKey builds the domain-scoped registry key:
// hex(sha256(domain) || commitment). Hashing the domain first keeps the key
// fixed-width and collision-resistant regardless of how the caller encodes
// the domain bytes.
func DeriveKey(domain [DomainLen]byte, commitment [32]byte) string {
	domainScope := sha256.Sum256(domain[:])

	key := make([]byte, 0, len(domainScope)+len(commitment))
	key = append(key, domainScope[:]...)
	key = append(key, commitment[:]...)
	return hex.EncodeToString(key)
}

// DomainFromString null-pads a relying-party domain into its fixed-width
// form. Domains longer than DomainLen are rejected by the caller beforehand.
func DomainFromString(domain string) [DomainLen]byte {
	var out [DomainLen]byte
	copy(out[:], domain)
	return out
}
