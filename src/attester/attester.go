package attester

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"time"

	"attestation-service/pkg/logger"
	"attestation-service/src/attest"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/gagliardetto/solana-go"
)

type ZkpResult struct {
	Proof         groth16.Proof
	VerifyingKey  groth16.VerifyingKey
	PublicWitness witness.Witness
}

// CreateProof compiles the commitment circuit, runs setup and proves
// knowledge of the secret. Returns the proof bundle plus the public
// commitment it binds to.
func CreateProof(secret *big.Int) (*ZkpResult, [32]byte, error) {
	var circuit CommitmentCircuit
	var empty [32]byte

	ccs, err := frontend.Compile(ElipticalCurveID.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, empty, err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, empty, err
	}

	commitment := ComputeCommitment(secret)
	assignment := CommitmentCircuit{
		Secret:     secret,
		Commitment: new(big.Int).SetBytes(commitment[:]),
	}

	fullWitness, err := frontend.NewWitness(&assignment, ElipticalCurveID.ScalarField())
	if err != nil {
		return nil, empty, err
	}

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return nil, empty, err
	}

	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, empty, err
	}

	return &ZkpResult{
		Proof:         proof,
		VerifyingKey:  vk,
		PublicWitness: publicWitness,
	}, commitment, nil
}

// Attester verifies proofs off-chain and signs the outcome. Whatever the
// verifier later accepts, the attester signs the true result — including
// failures — so a rejected proof can never be dressed up as a valid one.
type Attester struct {
	Key solana.PrivateKey
}

func New(key solana.PrivateKey) *Attester {
	return &Attester{Key: key}
}

func (a *Attester) Identity() solana.PublicKey {
	return a.Key.PublicKey()
}

// Attest runs groth16 verification and signs the resulting claim. There is
// no fallback: a proof that fails verification yields a signed is_valid=0
// result, never an accepted one.
func (a *Attester) Attest(result *ZkpResult) (*attest.VerificationResult, error) {
	isValid := true
	if err := groth16.Verify(result.Proof, result.VerifyingKey, result.PublicWitness); err != nil {
		logger.Default().Warnf("Proof failed verification, attesting failure: %v", err)
		isValid = false
	}

	proofHash, err := HashProof(result.Proof)
	if err != nil {
		return nil, err
	}

	message := attest.Message{
		ProofHash: proofHash,
		IsValid:   isValid,
		Timestamp: time.Now().Unix(),
	}

	return a.Sign(message)
}

// Sign produces the signed verification result for an already-built claim.
func (a *Attester) Sign(message attest.Message) (*attest.VerificationResult, error) {
	encoded := message.Encode()
	signature, err := a.Key.Sign(encoded[:])
	if err != nil {
		return nil, err
	}

	return &attest.VerificationResult{
		Message:   message,
		Signature: [64]byte(signature),
	}, nil
}

// HashProof derives the content hash binding the attestation to one exact
// proof: sha256 over the proof's canonical serialization.
func HashProof(proof groth16.Proof) ([32]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(buf.Bytes()), nil
}
