package dto

import (
	"attestation-service/pkg/utilities"

	reasoncodes "attestation-service/pkg/reason_codes"
)

type AttestationResultDto struct {
	EventId      string `json:"event_id"`
	NullifierKey string `json:"nullifier_key"`
	Domain       string `json:"domain"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
}

func (ar AttestationResultDto) Serialize() ([]byte, error) {
	return utilities.Serialize[AttestationResultDto](ar)
}

type AttestationFailureDto struct {
	EventId     string                 `json:"event_id"`
	RequestBody []byte                 `json:"request_body"`
	Error       string                 `json:"error"`
	ReasonCode  reasoncodes.ReasonCode `json:"reason_code"`
}

func (af AttestationFailureDto) Serialize() ([]byte, error) {
	return utilities.Serialize[AttestationFailureDto](af)
}
