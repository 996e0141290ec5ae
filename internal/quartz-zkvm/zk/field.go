package zk

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Modulus is the BN254 scalar field order, the ~254-bit prime the proving
// system operates over.
// r = 21888242871839275222246405745257275088548364400416034343698204186575808495617
var Modulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10,
)

var modulusU256 = uint256.MustFromBig(Modulus)

// ReduceDigest maps a 256-bit digest into the field by treating it as a
// big-endian unsigned integer and taking the remainder modulo r. The digest
// range exceeds the field's, and Poseidon rejects out-of-range inputs, so
// the reduction is mandatory, not defensive. The result is always < r, for
// every possible digest including 2^256-1.
func ReduceDigest(digest [32]byte) *big.Int {
	v := new(uint256.Int).SetBytes(digest[:])
	v.Mod(v, modulusU256)
	return v.ToBig()
}
