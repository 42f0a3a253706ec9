package external

import (
	"context"
	"crypto/sha256"

	"attestation-service/pkg/logger"
	"attestation-service/src/attest"
	"attestation-service/src/ed25519ix"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/near/borsh-go"
)

// AttestationSubmitter composes the two-instruction transaction the on-chain
// program expects: the Ed25519 verification instruction immediately followed
// by the program instruction, atomically in one transaction.
type AttestationSubmitter struct {
	Config    *SharedSolanaConfig
	RpcClient *rpc.Client
}

func NewAttestationSubmitter(config *SharedSolanaConfig, rpcURL string) *AttestationSubmitter {
	return &AttestationSubmitter{
		Config:    config,
		RpcClient: rpc.New(rpcURL),
	}
}

type verifyAuthArgs struct {
	VerificationResult []byte
	Nullifier          [32]byte
	Domain             [32]byte
}

// anchor-style instruction discriminator
func instructionDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + name))
	return hash[:8]
}

// BuildAttestationInstructions composes the instruction pair the program
// executes atomically: the Ed25519 verification instruction immediately
// followed by the verify_auth instruction that introspects it.
func BuildAttestationInstructions(
	programID solana.PublicKey,
	authority solana.PublicKey,
	result *attest.VerificationResult,
	commitment [32]byte,
	domain [32]byte,
) ([]solana.Instruction, error) {
	message := result.Message.Encode()

	ed25519Data, err := ed25519ix.NewInstructionData(
		[32]byte(authority),
		message[:],
		result.Signature,
	)
	if err != nil {
		return nil, err
	}

	args := verifyAuthArgs{
		VerificationResult: result.Encode(),
		Nullifier:          commitment,
		Domain:             domain,
	}
	argsData, err := borsh.Serialize(args)
	if err != nil {
		return nil, err
	}
	instructionData := append(instructionDiscriminator("verify_auth"), argsData...)

	nullifierAccount, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("nullifier"), commitment[:]},
		programID,
	)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(nullifierAccount, true, false),
		solana.NewAccountMeta(authority, true, true),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return []solana.Instruction{
		solana.NewInstruction(ed25519ix.Ed25519ProgramID, nil, ed25519Data),
		solana.NewInstruction(programID, accounts, instructionData),
	}, nil
}

func (as *AttestationSubmitter) SubmitAttestation(
	ctx context.Context,
	result *attest.VerificationResult,
	commitment [32]byte,
	domain [32]byte,
) (solana.Signature, error) {
	submitterLogger := logger.Default()

	as.Config.Mu.Lock()
	programID := as.Config.Keys.ProgramID
	authority := as.Config.Keys.AuthorityPublicKey
	authorityKey := as.Config.Keys.AuthorityPrivateKey
	as.Config.Mu.Unlock()

	instructions, err := BuildAttestationInstructions(programID, authority, result, commitment, domain)
	if err != nil {
		return solana.Signature{}, err
	}

	latest, err := as.RpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(
		instructions,
		latest.Value.Blockhash,
		solana.TransactionPayer(authority),
	)
	if err != nil {
		return solana.Signature{}, err
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(authority) {
			return &authorityKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, err
	}

	transactionSignature, err := as.RpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		submitterLogger.Errorf(err, "Failed to send attestation transaction")
		return solana.Signature{}, err
	}

	submitterLogger.Infof("Successfully sent attestation transaction: %s", transactionSignature)
	return transactionSignature, nil
}
