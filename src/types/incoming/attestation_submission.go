package incoming

// AttestationSubmissionDto is the queue message a relay publishes when a
// client wants an attestation checked and its nullifier registered.
// Instruction data blobs travel base64-encoded, program ids and accounts
// base58-encoded.
type AttestationSubmissionDto struct {
	EventId      string           `json:"event_id"`
	Commitment   string           `json:"commitment"` // hex, 32 bytes
	Domain       string           `json:"domain"`
	Instructions []InstructionDto `json:"instructions"`
	CurrentIndex int              `json:"current_index"`
}

type InstructionDto struct {
	ProgramId string   `json:"program_id"`
	Accounts  []string `json:"accounts"`
	Data      string   `json:"data"`
}
