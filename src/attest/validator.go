package attest

import (
	"bytes"
	"errors"

	"attestation-service/src/ed25519ix"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrProofHashMismatch = errors.New("attest: attested proof hash does not match expected commitment")
	ErrNotValid          = errors.New("attest: attestation claims the proof did not verify")
	ErrStale             = errors.New("attest: attestation timestamp is older than the allowed window")
	ErrFutureTimestamp   = errors.New("attest: attestation timestamp lies in the future")
	ErrAuthorityMismatch = errors.New("attest: signer public key does not match the attester identity")
)

// Expected carries the caller-established trust anchors a submission is
// checked against.
type Expected struct {
	AttesterIdentity   solana.PublicKey
	ExpectedCommitment [32]byte
	Now                int64
	MaxAgeSeconds      int64
}

// ValidatedAttestation is the decoded message once every check has passed.
type ValidatedAttestation struct {
	Message Message
}

// Validate closes the gap between "the host verified some signature in this
// transaction" and "the host verified a signature by the expected attester
// over exactly this claim". The Ed25519 math itself already ran when the
// host executed the co-submitted verification instruction; only equality
// and freshness checks remain.
func Validate(block *ed25519ix.SignatureBlock, expected Expected) (*ValidatedAttestation, error) {
	msg, err := DecodeMessage(block.Message)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(msg.ProofHash[:], expected.ExpectedCommitment[:]) {
		return nil, ErrProofHashMismatch
	}

	// A signed statement of invalidity is authentic, but it is never an
	// authentication success.
	if !msg.IsValid {
		return nil, ErrNotValid
	}

	if msg.Timestamp > expected.Now {
		return nil, ErrFutureTimestamp
	}
	if expected.Now-msg.Timestamp > expected.MaxAgeSeconds {
		return nil, ErrStale
	}

	if !bytes.Equal(block.PublicKey[:], expected.AttesterIdentity.Bytes()) {
		return nil, ErrAuthorityMismatch
	}

	return &ValidatedAttestation{Message: msg}, nil
}
