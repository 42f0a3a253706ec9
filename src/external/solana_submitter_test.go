package external

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"attestation-service/src/attest"
	"attestation-service/src/ed25519ix"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var testProgramID = solana.MustPublicKeyFromBase58("H6apEGZAw23AKUeqCX41wkDv2LVwX3Ec8oYPip7k3xzA")

func testVerificationResult() (*attest.VerificationResult, [32]byte, [32]byte) {
	var commitment [32]byte
	var domain [32]byte
	var signature [64]byte
	commitment[0] = 1
	copy(domain[:], "app.example.com")
	for i := range signature {
		signature[i] = byte(i)
	}

	return &attest.VerificationResult{
		Message: attest.Message{
			ProofHash: commitment,
			IsValid:   true,
			Timestamp: 1735689600,
		},
		Signature: signature,
	}, commitment, domain
}

func TestBuildAttestationInstructions(t *testing.T) {
	authorityKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate authority key: %v", err)
	}
	authority := authorityKey.PublicKey()
	result, commitment, domain := testVerificationResult()

	instructions, err := BuildAttestationInstructions(testProgramID, authority, result, commitment, domain)
	if err != nil {
		t.Fatalf("Failed to build instructions: %v", err)
	}
	if len(instructions) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(instructions))
	}

	// first instruction: Ed25519 verification, parseable by our own parser
	if !instructions[0].ProgramID().Equals(ed25519ix.Ed25519ProgramID) {
		t.Error("First instruction must target the Ed25519 verification program")
	}
	if len(instructions[0].Accounts()) != 0 {
		t.Error("The Ed25519 verification instruction must not carry accounts")
	}
	ed25519Data, err := instructions[0].Data()
	if err != nil {
		t.Fatalf("Failed to read Ed25519 instruction data: %v", err)
	}
	block, err := ed25519ix.Parse(ed25519Data)
	if err != nil {
		t.Fatalf("Built Ed25519 instruction data does not parse: %v", err)
	}
	if block.PublicKey != [32]byte(authority) {
		t.Error("Parsed public key does not match the authority")
	}
	if block.Signature != result.Signature {
		t.Error("Parsed signature does not match the verification result")
	}
	expectedMessage := result.Message.Encode()
	if !bytes.Equal(block.Message, expectedMessage[:]) {
		t.Error("Parsed message does not match the encoded attestation message")
	}

	// second instruction: verify_auth with borsh args behind the discriminator
	if !instructions[1].ProgramID().Equals(testProgramID) {
		t.Error("Second instruction must target the attestation program")
	}
	programData, err := instructions[1].Data()
	if err != nil {
		t.Fatalf("Failed to read program instruction data: %v", err)
	}
	discriminator := sha256.Sum256([]byte("global:verify_auth"))
	if !bytes.Equal(programData[:8], discriminator[:8]) {
		t.Error("Program instruction must start with the verify_auth discriminator")
	}

	var args verifyAuthArgs
	if err := borsh.Deserialize(&args, programData[8:]); err != nil {
		t.Fatalf("Program instruction args do not deserialize: %v", err)
	}
	if !bytes.Equal(args.VerificationResult, result.Encode()) {
		t.Error("Deserialized verification result payload does not roundtrip")
	}
	if args.Nullifier != commitment {
		t.Error("Deserialized nullifier does not match the commitment")
	}
	if args.Domain != domain {
		t.Error("Deserialized domain does not match")
	}
}

func TestBuildAttestationInstructionsAccounts(t *testing.T) {
	authorityKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate authority key: %v", err)
	}
	authority := authorityKey.PublicKey()
	result, commitment, domain := testVerificationResult()

	instructions, err := BuildAttestationInstructions(testProgramID, authority, result, commitment, domain)
	if err != nil {
		t.Fatalf("Failed to build instructions: %v", err)
	}

	accounts := instructions[1].Accounts()
	if len(accounts) != 4 {
		t.Fatalf("Expected 4 accounts on the program instruction, got %d", len(accounts))
	}

	expectedPda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("nullifier"), commitment[:]},
		testProgramID,
	)
	if err != nil {
		t.Fatalf("Failed to derive nullifier PDA: %v", err)
	}

	if !accounts[0].PublicKey.Equals(expectedPda) || !accounts[0].IsWritable || accounts[0].IsSigner {
		t.Error("Account 0 must be the writable, non-signing nullifier PDA")
	}
	if !accounts[1].PublicKey.Equals(authority) || !accounts[1].IsSigner || !accounts[1].IsWritable {
		t.Error("Account 1 must be the signing authority")
	}
	if !accounts[2].PublicKey.Equals(solana.SysVarInstructionsPubkey) {
		t.Error("Account 2 must be the instructions sysvar")
	}
	if !accounts[3].PublicKey.Equals(solana.SystemProgramID) {
		t.Error("Account 3 must be the system program")
	}
}
