package incoming

// ChainSubmissionDto asks the chain submit worker to push an attester-signed
// verification result on-chain. The 105-byte verification result payload
// travels base64-encoded, the commitment hex-encoded.
type ChainSubmissionDto struct {
	EventId            string `json:"event_id"`
	VerificationResult string `json:"verification_result"`
	Commitment         string `json:"commitment"`
	Domain             string `json:"domain"`
}
