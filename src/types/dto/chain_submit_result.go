package dto

import "attestation-service/pkg/utilities"

type ChainSubmitResultDto struct {
	EventId              string `json:"event_id"`
	TransactionSignature string `json:"transaction_signature"`
	Domain               string `json:"domain"`
}

func (cs ChainSubmitResultDto) Serialize() ([]byte, error) {
	return utilities.Serialize[ChainSubmitResultDto](cs)
}
