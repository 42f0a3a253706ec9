package reasoncodes

type ReasonCode string

const (
	ErrUnmarshal         ReasonCode = "UnmarshalError"
	ErrBadSubmission     ReasonCode = "BadSubmissionError"
	ErrSignatureSmuggle  ReasonCode = "SignatureSmuggleAttempt"
	ErrAttestation       ReasonCode = "AttestationRejected"
	ErrReplay            ReasonCode = "ReplayRejected"
	ErrNullifierRegistry ReasonCode = "NullifierRegistryError"
	ErrSolana            ReasonCode = "SolanaBlockchainError"
)
