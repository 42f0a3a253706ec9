package workers

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"attestation-service/src/attest"
	"attestation-service/src/nullifier"
	"attestation-service/src/types/incoming"
)

func encodedVerificationResult() (attest.VerificationResult, string) {
	var proofHash [32]byte
	var signature [64]byte
	proofHash[0] = 1
	for i := range signature {
		signature[i] = byte(i)
	}

	vr := attest.VerificationResult{
		Message: attest.Message{
			ProofHash: proofHash,
			IsValid:   true,
			Timestamp: 1735689600,
		},
		Signature: signature,
	}
	return vr, base64.StdEncoding.EncodeToString(vr.Encode())
}

func TestMapChainSubmission(t *testing.T) {
	vr, payload := encodedVerificationResult()
	var commitment [32]byte
	commitment[0] = 7

	message := incoming.ChainSubmissionDto{
		EventId:            "event-1",
		VerificationResult: payload,
		Commitment:         hex.EncodeToString(commitment[:]),
		Domain:             "app.example.com",
	}

	result, mappedCommitment, domain, err := mapChainSubmission(message)
	if err != nil {
		t.Fatalf("Expected mapping to succeed, got: %v", err)
	}

	if *result != vr {
		t.Error("Mapped verification result does not match the encoded payload")
	}
	if mappedCommitment != commitment {
		t.Error("Mapped commitment does not match")
	}
	if domain != nullifier.DomainFromString("app.example.com") {
		t.Error("Mapped domain is not the null-padded form")
	}
}

func TestMapChainSubmissionRejectsMalformedInput(t *testing.T) {
	_, payload := encodedVerificationResult()
	validCommitment := hex.EncodeToString(make([]byte, 32))

	cases := []struct {
		name    string
		message incoming.ChainSubmissionDto
		want    error
	}{
		{
			name: "payload is not base64",
			message: incoming.ChainSubmissionDto{
				VerificationResult: "%%%not-base64%%%",
				Commitment:         validCommitment,
				Domain:             "app.example.com",
			},
		},
		{
			name: "payload is not 105 bytes",
			message: incoming.ChainSubmissionDto{
				VerificationResult: base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
				Commitment:         validCommitment,
				Domain:             "app.example.com",
			},
			want: attest.ErrBadVerificationResult,
		},
		{
			name: "commitment is not hex",
			message: incoming.ChainSubmissionDto{
				VerificationResult: payload,
				Commitment:         "zz",
				Domain:             "app.example.com",
			},
		},
		{
			name: "commitment is not 32 bytes",
			message: incoming.ChainSubmissionDto{
				VerificationResult: payload,
				Commitment:         "0102",
				Domain:             "app.example.com",
			},
		},
		{
			name: "domain is empty",
			message: incoming.ChainSubmissionDto{
				VerificationResult: payload,
				Commitment:         validCommitment,
				Domain:             "",
			},
		},
		{
			name: "domain exceeds 32 bytes",
			message: incoming.ChainSubmissionDto{
				VerificationResult: payload,
				Commitment:         validCommitment,
				Domain:             "a-very-long-domain-name-over-32-bytes.example.com",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := mapChainSubmission(tc.message)
			if err == nil {
				t.Fatal("Expected mapping to fail")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got: %v", tc.want, err)
			}
		})
	}
}
