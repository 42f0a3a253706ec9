package external

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"attestation-service/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type Keys struct {
	ProgramID           solana.PublicKey
	AuthorityPublicKey  solana.PublicKey
	AuthorityPrivateKey solana.PrivateKey
}

type SharedSolanaConfig struct {
	Mu   sync.Mutex
	Keys *Keys
}

// LoadSolanaKeys reads the deployed attestation program id and the attester
// keypair. The attester key doubles as the transaction fee payer, matching
// the on-chain authority check.
func LoadSolanaKeys() (*SharedSolanaConfig, error) {
	programIDStr := os.Getenv("PROGRAM_ID")
	if programIDStr == "" {
		return nil, fmt.Errorf("PROGRAM_ID env var is not set (use your deployed program id)")
	}
	programID, err := solana.PublicKeyFromBase58(programIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROGRAM_ID %q: %w", programIDStr, err)
	}

	keypairPath := os.Getenv("ATTESTER_KEYPAIR_PATH")
	if keypairPath == "" {
		homeDir, _ := os.UserHomeDir()
		keypairPath = filepath.Join(homeDir, ".attestconfig", "solana", "id.json")
	}
	attesterPriv, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, fmt.Errorf("reading attester keypair from %s failed: %w", keypairPath, err)
	}

	cfg := &Keys{
		ProgramID:           programID,
		AuthorityPublicKey:  attesterPriv.PublicKey(),
		AuthorityPrivateKey: attesterPriv,
	}

	logger.Default().Debugf("ProgramID: %s", cfg.ProgramID.String())
	logger.Default().Debugf("Attester authority: %s", cfg.AuthorityPublicKey.String())

	return &SharedSolanaConfig{
		Mu:   sync.Mutex{},
		Keys: cfg,
	}, nil
}

func (sc *SharedSolanaConfig) ValidateProgramExecutable(ctx context.Context, rpcClient *rpc.Client) error {
	acc, err := rpcClient.GetAccountInfo(ctx, sc.Keys.ProgramID)
	if err != nil {
		return fmt.Errorf("GetAccountInfo(program) failed: %w", err)
	}
	if acc == nil || acc.Value == nil || !acc.Value.Executable {
		return fmt.Errorf("ProgramID %s is not an executable account", sc.Keys.ProgramID)
	}
	return nil
}
