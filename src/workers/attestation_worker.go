package workers

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"attestation-service/pkg/logger"
	"attestation-service/pkg/rabbitmq"
	"attestation-service/src/attest"
	"attestation-service/src/ed25519ix"
	"attestation-service/src/nullifier"
	"attestation-service/src/types/dto"
	"attestation-service/src/types/incoming"
	"attestation-service/src/verifier"

	reasoncodes "attestation-service/pkg/reason_codes"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	attestationWorkerServiceName                         = "AttestationWorker"
	failureQueuePublisherAlias   rabbitmq.PublisherAlias = "AttestationFailurePublisher"
	resultQueuePublisherAlias    rabbitmq.PublisherAlias = "AttestationResultsPublisher"
	submissionConsumerAlias      rabbitmq.ConsumerAlias  = "AttestationSubmissionConsumer"
)

// AttestationWorker consumes submission DTOs, runs the verifier chain and
// publishes the outcome. Every rejection carries a reason code; the offset
// forgery signal keeps its own code so it stays visible downstream.
type AttestationWorker struct {
	Verifier *verifier.Verifier
	Consumer rabbitmq.IRabbitmqConsumer
}

func NewAttestationWorker(v *verifier.Verifier) rabbitmq.WorkerService {
	return &AttestationWorker{
		Verifier: v,
		Consumer: rabbitmq.GetConsumer(submissionConsumerAlias),
	}
}

func (w *AttestationWorker) GetServiceName() string {
	return attestationWorkerServiceName
}

func (w *AttestationWorker) StartService() {
	workerLogger := logger.Default()
	failurePublisher := rabbitmq.GetPublisher(failureQueuePublisherAlias)
	resultPublisher := rabbitmq.GetPublisher(resultQueuePublisherAlias)

	w.Consumer.StartConsuming(func(d amqp.Delivery) {
		var message incoming.AttestationSubmissionDto
		responseFactory := dto.NewAttestationFailureFactory("", d.Body)

		if err := json.Unmarshal(d.Body, &message); err != nil {
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrUnmarshal))
			return
		}
		if message.EventId == "" {
			message.EventId = uuid.NewString()
		}
		responseFactory = dto.NewAttestationFailureFactory(message.EventId, d.Body)

		sub, commitment, domain, err := mapSubmission(message)
		if err != nil {
			workerLogger.Errorf(err, "Rejected malformed submission %s", message.EventId)
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrBadSubmission))
			return
		}

		record, err := w.Verifier.HandleSubmission(sub, commitment, domain)
		if err != nil {
			code := classify(err)
			if code == reasoncodes.ErrSignatureSmuggle {
				workerLogger.Warnf("Offset forgery attempt in submission %s: %v", message.EventId, err)
			} else {
				workerLogger.Infof("Rejected submission %s: %v", message.EventId, err)
			}
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, code))
			return
		}

		result := dto.AttestationResultDto{
			EventId:      message.EventId,
			NullifierKey: record.NullifierKey,
			Domain:       message.Domain,
			CreatedAt:    record.CreatedAt,
			ExpiresAt:    record.ExpiresAt,
		}

		_ = resultPublisher.Publish(result)
		workerLogger.Infof("Registered attestation for %s, key %s, expires %d", message.EventId, record.NullifierKey, record.ExpiresAt)
	})
}

func mapSubmission(message incoming.AttestationSubmissionDto) (ed25519ix.Submission, [32]byte, [nullifier.DomainLen]byte, error) {
	var commitment [32]byte
	var domain [nullifier.DomainLen]byte

	commitmentBytes, err := hex.DecodeString(message.Commitment)
	if err != nil {
		return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("decode commitment: %w", err)
	}
	if len(commitmentBytes) != 32 {
		return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("commitment must be 32 bytes, got %d", len(commitmentBytes))
	}
	copy(commitment[:], commitmentBytes)

	if len(message.Domain) == 0 || len(message.Domain) > nullifier.DomainLen {
		return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("domain must be 1..%d bytes", nullifier.DomainLen)
	}
	domain = nullifier.DomainFromString(message.Domain)

	instructions := make([]ed25519ix.Instruction, 0, len(message.Instructions))
	for i, ixDto := range message.Instructions {
		programID, err := solana.PublicKeyFromBase58(ixDto.ProgramId)
		if err != nil {
			return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("instruction %d program id: %w", i, err)
		}

		var accounts []*solana.AccountMeta
		for _, accountStr := range ixDto.Accounts {
			accountKey, err := solana.PublicKeyFromBase58(accountStr)
			if err != nil {
				return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("instruction %d account: %w", i, err)
			}
			accounts = append(accounts, solana.NewAccountMeta(accountKey, false, false))
		}

		data, err := base64.StdEncoding.DecodeString(ixDto.Data)
		if err != nil {
			return ed25519ix.Submission{}, commitment, domain, fmt.Errorf("instruction %d data: %w", i, err)
		}

		instructions = append(instructions, ed25519ix.Instruction{
			ProgramID: programID,
			Accounts:  accounts,
			Data:      data,
		})
	}

	return ed25519ix.Submission{
		Instructions: instructions,
		CurrentIndex: message.CurrentIndex,
	}, commitment, domain, nil
}

func classify(err error) reasoncodes.ReasonCode {
	switch {
	case errors.Is(err, ed25519ix.ErrOffsetMismatch):
		return reasoncodes.ErrSignatureSmuggle
	case errors.Is(err, nullifier.ErrAlreadyExists):
		return reasoncodes.ErrReplay
	case errors.Is(err, ed25519ix.ErrNoPrecedingInstruction),
		errors.Is(err, ed25519ix.ErrWrongProgram),
		errors.Is(err, ed25519ix.ErrUnexpectedAccounts),
		errors.Is(err, ed25519ix.ErrTruncated),
		errors.Is(err, ed25519ix.ErrUnsupportedCount),
		errors.Is(err, ed25519ix.ErrOutOfBounds),
		errors.Is(err, ed25519ix.ErrWrongMessageSize):
		return reasoncodes.ErrAttestation
	case errors.Is(err, attest.ErrMalformedMessage),
		errors.Is(err, attest.ErrProofHashMismatch),
		errors.Is(err, attest.ErrNotValid),
		errors.Is(err, attest.ErrStale),
		errors.Is(err, attest.ErrFutureTimestamp),
		errors.Is(err, attest.ErrAuthorityMismatch):
		return reasoncodes.ErrAttestation
	default:
		return reasoncodes.ErrNullifierRegistry
	}
}
