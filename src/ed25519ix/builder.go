package ed25519ix

import (
	"encoding/binary"
	"fmt"
)

// NewInstructionData builds the wire layout the parser accepts: one
// signature entry with all index fields set to the sentinel, followed by
// signature, public key and message blobs. Used by the submitter when
// composing the transaction, and by tests crafting inputs.
func NewInstructionData(publicKey [PublicKeyLen]byte, message []byte, signature [SignatureLen]byte) ([]byte, error) {
	if len(message) > 0xFFFF {
		return nil, fmt.Errorf("ed25519ix: message of %d bytes does not fit u16 size field", len(message))
	}

	signatureOffset := uint16(HeaderLen)
	publicKeyOffset := uint16(HeaderLen + SignatureLen)
	messageOffset := uint16(HeaderLen + SignatureLen + PublicKeyLen)

	data := make([]byte, 0, HeaderLen+SignatureLen+PublicKeyLen+len(message))
	data = append(data, 1) // signature count
	data = append(data, 0) // padding

	data = binary.LittleEndian.AppendUint16(data, signatureOffset)
	data = binary.LittleEndian.AppendUint16(data, IndexSentinel)
	data = binary.LittleEndian.AppendUint16(data, publicKeyOffset)
	data = binary.LittleEndian.AppendUint16(data, IndexSentinel)
	data = binary.LittleEndian.AppendUint16(data, messageOffset)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(message)))
	data = binary.LittleEndian.AppendUint16(data, IndexSentinel)

	data = append(data, signature[:]...)
	data = append(data, publicKey[:]...)
	data = append(data, message...)

	return data, nil
}
