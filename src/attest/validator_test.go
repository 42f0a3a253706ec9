package attest

import (
	"errors"
	"testing"

	"attestation-service/src/ed25519ix"

	"github.com/gagliardetto/solana-go"
)

const (
	testNow    = int64(1735689600)
	testMaxAge = int64(300)
)

var testAttester = solana.MustPublicKeyFromBase58("H6apEGZAw23AKUeqCX41wkDv2LVwX3Ec8oYPip7k3xzA")

func validBlock(t *testing.T, message Message) *ed25519ix.SignatureBlock {
	t.Helper()

	encoded := message.Encode()
	block := &ed25519ix.SignatureBlock{
		PublicKey: [32]byte(testAttester),
		Message:   encoded[:],
	}
	return block
}

func expectedFor(message Message) Expected {
	return Expected{
		AttesterIdentity:   testAttester,
		ExpectedCommitment: message.ProofHash,
		Now:                testNow,
		MaxAgeSeconds:      testMaxAge,
	}
}

func baseMessage() Message {
	var proofHash [32]byte
	proofHash[0] = 0xCA
	return Message{
		ProofHash: proofHash,
		IsValid:   true,
		Timestamp: testNow - 10,
	}
}

func TestValidateAcceptsFreshAttestation(t *testing.T) {
	message := baseMessage()

	validated, err := Validate(validBlock(t, message), expectedFor(message))
	if err != nil {
		t.Fatalf("Expected validation to pass, got: %v", err)
	}
	if validated.Message != message {
		t.Error("Validated message does not match the signed message")
	}
}

func TestValidateRejectsMalformedMessage(t *testing.T) {
	message := baseMessage()
	block := validBlock(t, message)
	block.Message = block.Message[:40]

	_, err := Validate(block, expectedFor(message))
	if !errors.Is(err, ErrMalformedMessage) {
		t.Errorf("Expected ErrMalformedMessage, got: %v", err)
	}
}

func TestValidateRejectsCommitmentMismatch(t *testing.T) {
	message := baseMessage()
	expected := expectedFor(message)
	expected.ExpectedCommitment[0] ^= 1

	_, err := Validate(validBlock(t, message), expected)
	if !errors.Is(err, ErrProofHashMismatch) {
		t.Errorf("Expected ErrProofHashMismatch, got: %v", err)
	}
}

// A genuinely signed statement that the proof failed must never authenticate.
func TestValidateRejectsInvalidClaim(t *testing.T) {
	message := baseMessage()
	message.IsValid = false

	_, err := Validate(validBlock(t, message), expectedFor(message))
	if !errors.Is(err, ErrNotValid) {
		t.Errorf("Expected ErrNotValid, got: %v", err)
	}
}

func TestValidateFreshnessWindow(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		wantErr   error
	}{
		{"exactly at max age", testNow - testMaxAge, nil},
		{"one second too old", testNow - testMaxAge - 1, ErrStale},
		{"exactly now", testNow, nil},
		{"one second in the future", testNow + 1, ErrFutureTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := baseMessage()
			message.Timestamp = tt.timestamp

			_, err := Validate(validBlock(t, message), expectedFor(message))
			if tt.wantErr == nil && err != nil {
				t.Errorf("Expected validation to pass, got: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRejectsWrongAuthority(t *testing.T) {
	message := baseMessage()
	block := validBlock(t, message)
	block.PublicKey[5] ^= 1

	_, err := Validate(block, expectedFor(message))
	if !errors.Is(err, ErrAuthorityMismatch) {
		t.Errorf("Expected ErrAuthorityMismatch, got: %v", err)
	}
}
