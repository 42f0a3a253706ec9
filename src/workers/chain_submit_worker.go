package workers

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"attestation-service/pkg/logger"
	"attestation-service/pkg/rabbitmq"
	"attestation-service/src/attest"
	"attestation-service/src/external"
	"attestation-service/src/nullifier"
	"attestation-service/src/types/dto"
	"attestation-service/src/types/incoming"

	reasoncodes "attestation-service/pkg/reason_codes"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	chainSubmitWorkerServiceName                         = "ChainSubmitWorker"
	chainResultPublisherAlias    rabbitmq.PublisherAlias = "ChainResultsPublisher"
	chainSubmissionConsumerAlias rabbitmq.ConsumerAlias  = "ChainSubmissionConsumer"
)

// ChainSubmitWorker relays attester-signed verification results into the
// on-chain program's two-instruction transaction shape. The off-chain
// verifier chain stays authoritative; nothing here re-checks the claim.
type ChainSubmitWorker struct {
	Submitter *external.AttestationSubmitter
	Consumer  rabbitmq.IRabbitmqConsumer
}

func NewChainSubmitWorker(submitter *external.AttestationSubmitter) rabbitmq.WorkerService {
	return &ChainSubmitWorker{
		Submitter: submitter,
		Consumer:  rabbitmq.GetConsumer(chainSubmissionConsumerAlias),
	}
}

func (w *ChainSubmitWorker) GetServiceName() string {
	return chainSubmitWorkerServiceName
}

func (w *ChainSubmitWorker) StartService() {
	workerLogger := logger.Default()
	failurePublisher := rabbitmq.GetPublisher(failureQueuePublisherAlias)
	resultPublisher := rabbitmq.GetPublisher(chainResultPublisherAlias)

	w.Consumer.StartConsuming(func(d amqp.Delivery) {
		var message incoming.ChainSubmissionDto
		responseFactory := dto.NewAttestationFailureFactory("", d.Body)

		if err := json.Unmarshal(d.Body, &message); err != nil {
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrUnmarshal))
			return
		}
		if message.EventId == "" {
			message.EventId = uuid.NewString()
		}
		responseFactory = dto.NewAttestationFailureFactory(message.EventId, d.Body)

		result, commitment, domain, err := mapChainSubmission(message)
		if err != nil {
			workerLogger.Errorf(err, "Rejected malformed chain submission %s", message.EventId)
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrBadSubmission))
			return
		}

		signature, err := w.Submitter.SubmitAttestation(context.Background(), result, commitment, domain)
		if err != nil {
			workerLogger.Errorf(err, "Chain submission %s failed", message.EventId)
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrSolana))
			return
		}

		_ = resultPublisher.Publish(dto.ChainSubmitResultDto{
			EventId:              message.EventId,
			TransactionSignature: signature.String(),
			Domain:               message.Domain,
		})
		workerLogger.Infof("Submitted attestation %s on-chain: %s", message.EventId, signature)
	})
}

func mapChainSubmission(message incoming.ChainSubmissionDto) (*attest.VerificationResult, [32]byte, [nullifier.DomainLen]byte, error) {
	var commitment [32]byte
	var domain [nullifier.DomainLen]byte

	payload, err := base64.StdEncoding.DecodeString(message.VerificationResult)
	if err != nil {
		return nil, commitment, domain, fmt.Errorf("decode verification result: %w", err)
	}
	result, err := attest.DecodeVerificationResult(payload)
	if err != nil {
		return nil, commitment, domain, err
	}

	commitmentBytes, err := hex.DecodeString(message.Commitment)
	if err != nil {
		return nil, commitment, domain, fmt.Errorf("decode commitment: %w", err)
	}
	if len(commitmentBytes) != 32 {
		return nil, commitment, domain, fmt.Errorf("commitment must be 32 bytes, got %d", len(commitmentBytes))
	}
	copy(commitment[:], commitmentBytes)

	if len(message.Domain) == 0 || len(message.Domain) > nullifier.DomainLen {
		return nil, commitment, domain, fmt.Errorf("domain must be 1..%d bytes", nullifier.DomainLen)
	}
	domain = nullifier.DomainFromString(message.Domain)

	return &result, commitment, domain, nil
}
