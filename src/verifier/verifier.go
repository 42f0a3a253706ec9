package verifier

import (
	"time"

	"attestation-service/src/attest"
	"attestation-service/src/ed25519ix"
	"attestation-service/src/nullifier"

	"github.com/gagliardetto/solana-go"
)

// Config holds the deployment trust anchors. Set once at construction,
// immutable afterwards.
type Config struct {
	SigVerifyProgramID solana.PublicKey
	AttesterIdentity   solana.PublicKey
	MaxAgeSeconds      int64
	ValidityWindow     int64
}

// Verifier runs the full attestation check chain against one submission and
// registers the nullifier on success.
type Verifier struct {
	config   Config
	registry nullifier.Registry
	now      func() int64
}

func New(config Config, registry nullifier.Registry) *Verifier {
	return &Verifier{
		config:   config,
		registry: registry,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// NewWithClock pins the clock, for tests exercising the freshness window.
func NewWithClock(config Config, registry nullifier.Registry, now func() int64) *Verifier {
	return &Verifier{
		config:   config,
		registry: registry,
		now:      now,
	}
}

// HandleSubmission locates the co-submitted signature verification
// instruction, parses and validates it against the expected commitment and
// attester, then atomically registers the domain-scoped nullifier. The first
// failing step aborts the whole submission; nothing is persisted until every
// check has passed, so there is no observable half-validated state.
func (v *Verifier) HandleSubmission(
	sub ed25519ix.Submission,
	expectedCommitment [32]byte,
	domain [nullifier.DomainLen]byte,
) (*nullifier.Record, error) {
	raw, err := ed25519ix.LocatePreceding(sub, v.config.SigVerifyProgramID)
	if err != nil {
		return nil, err
	}

	block, err := ed25519ix.Parse(raw)
	if err != nil {
		return nil, err
	}

	now := v.now()
	_, err = attest.Validate(block, attest.Expected{
		AttesterIdentity:   v.config.AttesterIdentity,
		ExpectedCommitment: expectedCommitment,
		Now:                now,
		MaxAgeSeconds:      v.config.MaxAgeSeconds,
	})
	if err != nil {
		return nil, err
	}

	key := nullifier.DeriveKey(domain, expectedCommitment)
	return v.registry.CreateIfAbsent(key, expectedCommitment, domain, now, v.config.ValidityWindow)
}
