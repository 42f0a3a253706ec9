package attester

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	frmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

const ElipticalCurveID = ecc.BN254

// CommitmentCircuit proves knowledge of the secret behind an identity
// commitment without revealing it: Commitment == MiMC(Secret).
type CommitmentCircuit struct {
	Secret     frontend.Variable `gnark:",secret"`
	Commitment frontend.Variable `gnark:",public"`
}

func (circuit *CommitmentCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	hasher.Write(circuit.Secret)
	api.AssertIsEqual(circuit.Commitment, hasher.Sum())

	return nil
}

// ComputeCommitment evaluates the circuit's hash outside the circuit,
// yielding the 32-byte identity commitment for a given secret.
func ComputeCommitment(secret *big.Int) [32]byte {
	var element fr.Element
	element.SetBigInt(secret)
	elementBytes := element.Bytes()

	hasher := frmimc.NewMiMC()
	hasher.Write(elementBytes[:])

	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}
