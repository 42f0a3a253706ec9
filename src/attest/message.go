package attest

import (
	"encoding/binary"
	"errors"
)

// MessageLen is the exact size of the signed attestation message:
// proof_hash (32) || is_valid (1) || timestamp (8, little-endian u64).
const MessageLen = 41

var ErrMalformedMessage = errors.New("attest: malformed attestation message")

// Message is the claim the attester signs. It is rebuilt and compared on
// every submission, never stored.
type Message struct {
	ProofHash [32]byte
	IsValid   bool
	Timestamp int64
}

func (m Message) Encode() [MessageLen]byte {
	var out [MessageLen]byte
	copy(out[0:32], m.ProofHash[:])
	if m.IsValid {
		out[32] = 1
	}
	binary.LittleEndian.PutUint64(out[33:41], uint64(m.Timestamp))
	return out
}

// DecodeMessage accepts only exactly MessageLen bytes. Variable-length
// messages are rejected outright so size confusion cannot reach the
// field comparisons.
func DecodeMessage(raw []byte) (Message, error) {
	if len(raw) != MessageLen {
		return Message{}, ErrMalformedMessage
	}
	if raw[32] > 1 {
		return Message{}, ErrMalformedMessage
	}

	var m Message
	copy(m.ProofHash[:], raw[0:32])
	m.IsValid = raw[32] == 1
	m.Timestamp = int64(binary.LittleEndian.Uint64(raw[33:41]))
	return m, nil
}
