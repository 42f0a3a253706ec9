package ed25519ix

import (
	"encoding/binary"
	"errors"
)

const (
	// HeaderLen covers the count byte, the padding byte and one 14-byte
	// offsets entry.
	HeaderLen = 16

	SignatureLen = 64
	PublicKeyLen = 32

	// ExpectedMessageLen pins the attested message size; anything else is
	// rejected before content checks run.
	ExpectedMessageLen = 41

	// IndexSentinel marks "this same instruction" in the three
	// *_instruction_index fields. Any other value points into a different
	// instruction the submitter controls, which is the offset forgery this
	// parser exists to reject.
	IndexSentinel = 0xFFFF
)

var (
	ErrTruncated        = errors.New("ed25519ix: instruction data shorter than header")
	ErrUnsupportedCount = errors.New("ed25519ix: signature count must be exactly 1")
	ErrOffsetMismatch   = errors.New("ed25519ix: instruction index field does not reference this instruction")
	ErrOutOfBounds      = errors.New("ed25519ix: offset field points outside instruction data")
	ErrWrongMessageSize = errors.New("ed25519ix: declared message size is not the attestation message size")
)

// SignatureBlock holds the three payload fields of a parsed signature
// verification instruction, copied out of the raw data.
type SignatureBlock struct {
	Signature [SignatureLen]byte
	PublicKey [PublicKeyLen]byte
	Message   []byte
}

// Parse validates and extracts the single signature entry from raw
// instruction data. The data is attacker-controlled: every offset is checked
// against the declared length before any slice is taken, and the sentinel
// check runs before anything else is dereferenced.
func Parse(raw []byte) (*SignatureBlock, error) {
	if len(raw) < HeaderLen {
		return nil, ErrTruncated
	}

	if raw[0] != 1 {
		return nil, ErrUnsupportedCount
	}

	// Offsets entry starts after count + padding.
	const base = 2
	signatureOffset := int(binary.LittleEndian.Uint16(raw[base : base+2]))
	signatureIxIdx := binary.LittleEndian.Uint16(raw[base+2 : base+4])
	publicKeyOffset := int(binary.LittleEndian.Uint16(raw[base+4 : base+6]))
	publicKeyIxIdx := binary.LittleEndian.Uint16(raw[base+6 : base+8])
	messageOffset := int(binary.LittleEndian.Uint16(raw[base+8 : base+10]))
	messageSize := int(binary.LittleEndian.Uint16(raw[base+10 : base+12]))
	messageIxIdx := binary.LittleEndian.Uint16(raw[base+12 : base+14])

	// All three index fields must reference this same instruction. This must
	// hold before any payload byte is trusted: a non-sentinel index smuggles
	// a signature or message from another instruction in the transaction.
	if signatureIxIdx != IndexSentinel ||
		publicKeyIxIdx != IndexSentinel ||
		messageIxIdx != IndexSentinel {
		return nil, ErrOffsetMismatch
	}

	// Offsets may not overlap the header. Upper bounds use int arithmetic on
	// u16-derived values, so overflow cannot wrap the checks.
	if signatureOffset < HeaderLen || publicKeyOffset < HeaderLen || messageOffset < HeaderLen {
		return nil, ErrOutOfBounds
	}
	if signatureOffset+SignatureLen > len(raw) {
		return nil, ErrOutOfBounds
	}
	if publicKeyOffset+PublicKeyLen > len(raw) {
		return nil, ErrOutOfBounds
	}
	if messageOffset+messageSize > len(raw) {
		return nil, ErrOutOfBounds
	}

	if messageSize != ExpectedMessageLen {
		return nil, ErrWrongMessageSize
	}

	block := &SignatureBlock{
		Message: make([]byte, messageSize),
	}
	copy(block.Signature[:], raw[signatureOffset:signatureOffset+SignatureLen])
	copy(block.PublicKey[:], raw[publicKeyOffset:publicKeyOffset+PublicKeyLen])
	copy(block.Message, raw[messageOffset:messageOffset+messageSize])

	return block, nil
}
