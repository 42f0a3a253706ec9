package attest

import (
	"encoding/binary"
	"errors"
)

// VerificationResultLen is the client-side instruction payload:
// [is_valid (1)][proof_hash (32)][timestamp (8)][signature (64)].
const VerificationResultLen = 105

var ErrBadVerificationResult = errors.New("attest: verification result payload is not 105 bytes")

// VerificationResult is the attester's output as carried inside the program
// instruction: the signed claim plus the Ed25519 signature over its
// 41-byte message encoding.
type VerificationResult struct {
	Message   Message
	Signature [64]byte
}

func (vr VerificationResult) Encode() []byte {
	data := make([]byte, 0, VerificationResultLen)
	if vr.Message.IsValid {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = append(data, vr.Message.ProofHash[:]...)
	data = binary.LittleEndian.AppendUint64(data, uint64(vr.Message.Timestamp))
	data = append(data, vr.Signature[:]...)
	return data
}

func DecodeVerificationResult(raw []byte) (VerificationResult, error) {
	if len(raw) != VerificationResultLen {
		return VerificationResult{}, ErrBadVerificationResult
	}
	if raw[0] > 1 {
		return VerificationResult{}, ErrBadVerificationResult
	}

	var vr VerificationResult
	vr.Message.IsValid = raw[0] == 1
	copy(vr.Message.ProofHash[:], raw[1:33])
	vr.Message.Timestamp = int64(binary.LittleEndian.Uint64(raw[33:41]))
	copy(vr.Signature[:], raw[41:105])
	return vr, nil
}
