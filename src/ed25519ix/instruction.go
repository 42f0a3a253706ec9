package ed25519ix

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// Ed25519ProgramID is Solana's built-in signature verification program,
// base58 Ed25519SigVerify111111111111111111111111111. Deployments pass it in
// through config; the constant is the default.
var Ed25519ProgramID = solana.MustPublicKeyFromBase58("Ed25519SigVerify111111111111111111111111111")

var (
	ErrNoPrecedingInstruction = errors.New("ed25519ix: no instruction precedes the current one")
	ErrWrongProgram           = errors.New("ed25519ix: preceding instruction is not the signature verification program")
	ErrUnexpectedAccounts     = errors.New("ed25519ix: signature verification instruction must not carry accounts")
)

// Instruction is a read-only view of one instruction inside a submitted
// transaction, as exposed by the host's instruction introspection.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []*solana.AccountMeta
	Data      []byte
}

// Submission is the ordered instruction list of one atomic transaction plus
// the index of the instruction currently executing.
type Submission struct {
	Instructions []Instruction
	CurrentIndex int
}

// LocatePreceding returns the raw bytes of the instruction immediately before
// the current one, after establishing that it is the stateless signature
// verification program. No payload parsing happens here.
func LocatePreceding(sub Submission, sigVerifyProgram solana.PublicKey) ([]byte, error) {
	if sub.CurrentIndex <= 0 || sub.CurrentIndex > len(sub.Instructions) {
		return nil, ErrNoPrecedingInstruction
	}

	ix := sub.Instructions[sub.CurrentIndex-1]
	if !ix.ProgramID.Equals(sigVerifyProgram) {
		return nil, ErrWrongProgram
	}
	if len(ix.Accounts) != 0 {
		return nil, ErrUnexpectedAccounts
	}

	return ix.Data, nil
}
