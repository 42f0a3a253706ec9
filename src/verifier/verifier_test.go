package verifier

import (
	"errors"
	"fmt"
	"testing"

	"attestation-service/src/attest"
	"attestation-service/src/ed25519ix"
	"attestation-service/src/nullifier"

	"github.com/gagliardetto/solana-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testNow    = int64(1735689600)
	testMaxAge = int64(300)
	testWindow = int64(2592000)
)

var testVerifierProgram = solana.MustPublicKeyFromBase58("H6apEGZAw23AKUeqCX41wkDv2LVwX3Ec8oYPip7k3xzA")

var verifierDbCounter int

type testHarness struct {
	verifier *Verifier
	registry nullifier.Registry
	attester solana.PrivateKey
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	verifierDbCounter++
	dsn := fmt.Sprintf("file:verifier_test_%d?mode=memory&cache=shared", verifierDbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&nullifier.Record{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	attesterKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate attester key: %v", err)
	}

	registry := nullifier.NewRegistry(db)
	config := Config{
		SigVerifyProgramID: ed25519ix.Ed25519ProgramID,
		AttesterIdentity:   attesterKey.PublicKey(),
		MaxAgeSeconds:      testMaxAge,
		ValidityWindow:     testWindow,
	}

	return &testHarness{
		verifier: NewWithClock(config, registry, func() int64 { return testNow }),
		registry: registry,
		attester: attesterKey,
	}
}

// signedInstructionData produces signature verification instruction data over
// a real Ed25519 signature by the harness attester key.
func (h *testHarness) signedInstructionData(t *testing.T, msg attest.Message) []byte {
	t.Helper()

	encoded := msg.Encode()
	signature, err := h.attester.Sign(encoded[:])
	if err != nil {
		t.Fatalf("Failed to sign attestation message: %v", err)
	}

	data, err := ed25519ix.NewInstructionData(
		[32]byte(h.attester.PublicKey()),
		encoded[:],
		[64]byte(signature),
	)
	if err != nil {
		t.Fatalf("Failed to build instruction data: %v", err)
	}
	return data
}

func submissionWith(sigVerifyData []byte) ed25519ix.Submission {
	return ed25519ix.Submission{
		Instructions: []ed25519ix.Instruction{
			{ProgramID: ed25519ix.Ed25519ProgramID, Data: sigVerifyData},
			{ProgramID: testVerifierProgram},
		},
		CurrentIndex: 1,
	}
}

func testCommitment(seed byte) [32]byte {
	var c [32]byte
	c[0] = seed
	return c
}

func TestHandleSubmissionAccepted(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - 10,
	})

	record, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if err != nil {
		t.Fatalf("Expected submission to be accepted, got: %v", err)
	}
	if record.ExpiresAt != testNow+testWindow {
		t.Errorf("Expected expires_at %d, got %d", testNow+testWindow, record.ExpiresAt)
	}

	key := nullifier.DeriveKey(domain, commitment)
	if _, err := h.registry.GetByKey(key); err != nil {
		t.Errorf("Accepted submission should have registered the nullifier: %v", err)
	}
}

func TestHandleSubmissionRejectsReplay(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - 10,
	})

	if _, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain); err != nil {
		t.Fatalf("First submission failed: %v", err)
	}

	_, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if !errors.Is(err, nullifier.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists on replay, got: %v", err)
	}
}

// A forged instruction index would make the host verify a signature taken
// from a different instruction than the one this payload claims. The parser
// must reject it before any content is looked at, and nothing is persisted.
func TestHandleSubmissionRejectsForgedIndex(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - 10,
	})
	// point signature_instruction_index at instruction 3
	data[4] = 3
	data[5] = 0

	_, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if !errors.Is(err, ed25519ix.ErrOffsetMismatch) {
		t.Fatalf("Expected ErrOffsetMismatch, got: %v", err)
	}

	key := nullifier.DeriveKey(domain, commitment)
	if _, err := h.registry.GetByKey(key); err == nil {
		t.Error("Rejected submission must not register a nullifier")
	}
}

func TestHandleSubmissionRejectsStaleAttestation(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - testMaxAge - 1,
	})

	_, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if !errors.Is(err, attest.ErrStale) {
		t.Errorf("Expected ErrStale, got: %v", err)
	}
}

func TestHandleSubmissionRejectsSignedInvalidClaim(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   false,
		Timestamp: testNow - 10,
	})

	_, err := h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if !errors.Is(err, attest.ErrNotValid) {
		t.Errorf("Expected ErrNotValid, got: %v", err)
	}
}

func TestHandleSubmissionRejectsWrongPrecedingProgram(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	data := h.signedInstructionData(t, attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - 10,
	})

	sub := ed25519ix.Submission{
		Instructions: []ed25519ix.Instruction{
			{ProgramID: solana.SystemProgramID, Data: data},
			{ProgramID: testVerifierProgram},
		},
		CurrentIndex: 1,
	}

	_, err := h.verifier.HandleSubmission(sub, commitment, domain)
	if !errors.Is(err, ed25519ix.ErrWrongProgram) {
		t.Errorf("Expected ErrWrongProgram, got: %v", err)
	}
}

func TestHandleSubmissionRejectsWrongAttester(t *testing.T) {
	h := newTestHarness(t)
	commitment := testCommitment(1)
	domain := nullifier.DomainFromString("app.example.com")

	impostor, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate impostor key: %v", err)
	}

	msg := attest.Message{
		ProofHash: commitment,
		IsValid:   true,
		Timestamp: testNow - 10,
	}
	encoded := msg.Encode()
	signature, err := impostor.Sign(encoded[:])
	if err != nil {
		t.Fatalf("Failed to sign with impostor key: %v", err)
	}
	data, err := ed25519ix.NewInstructionData(
		[32]byte(impostor.PublicKey()),
		encoded[:],
		[64]byte(signature),
	)
	if err != nil {
		t.Fatalf("Failed to build instruction data: %v", err)
	}

	_, err = h.verifier.HandleSubmission(submissionWith(data), commitment, domain)
	if !errors.Is(err, attest.ErrAuthorityMismatch) {
		t.Errorf("Expected ErrAuthorityMismatch, got: %v", err)
	}
}
