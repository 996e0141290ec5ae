package zk

import (
	"math/big"
	"sync"
)

// Poseidon over the BN254 scalar field, the algebraic half of the commitment
// pipeline. State width t=3 (rate 2, capacity 1), 8 full + 57 partial
// rounds, x^5 S-box, Cauchy MDS matrix. Round constants are derived
// deterministically from a fixed seed so two independent builds hash
// identically.

// PoseidonParams holds the permutation parameters.
type PoseidonParams struct {
	T              int
	FullRounds     int
	PartialRounds  int
	RoundConstants []*big.Int // length T * (FullRounds + PartialRounds)
	MDS            [][]*big.Int
}

var (
	poseidonOnce    sync.Once
	poseidonDefault *PoseidonParams
)

// DefaultPoseidonParams returns the shared BN254 parameter set. Generation
// runs once; the parameters are treated as read-only afterwards.
func DefaultPoseidonParams() *PoseidonParams {
	poseidonOnce.Do(func() {
		poseidonDefault = generatePoseidonParams(3, 8, 57)
	})
	return poseidonDefault
}

func generatePoseidonParams(t, fullRounds, partialRounds int) *PoseidonParams {
	return &PoseidonParams{
		T:              t,
		FullRounds:     fullRounds,
		PartialRounds:  partialRounds,
		RoundConstants: roundConstants(t, fullRounds+partialRounds),
		MDS:            cauchyMDS(t),
	}
}

// roundConstants derives t*rounds constants as (seed+i)^5 mod r, a
// reproducible stand-in for the Grain LFSR schedule of the Poseidon paper.
func roundConstants(t, rounds int) []*big.Int {
	seed := new(big.Int).SetBytes([]byte("QuartzPoseidonBN254"))
	five := big.NewInt(5)
	cs := make([]*big.Int, t*rounds)
	for i := range cs {
		c := new(big.Int).Add(seed, big.NewInt(int64(i)))
		cs[i] = c.Exp(c, five, Modulus)
	}
	return cs
}

// cauchyMDS builds M[i][j] = 1/(x_i + y_j) with x_i = i and y_j = t+j. The
// x and y sets are disjoint, so every denominator is invertible.
func cauchyMDS(t int) [][]*big.Int {
	mds := make([][]*big.Int, t)
	for i := 0; i < t; i++ {
		mds[i] = make([]*big.Int, t)
		for j := 0; j < t; j++ {
			sum := big.NewInt(int64(i + t + j))
			mds[i][j] = new(big.Int).ModInverse(sum, Modulus)
		}
	}
	return mds
}

// sbox computes x^5 mod r.
func sbox(x *big.Int) *big.Int {
	x2 := new(big.Int).Mul(x, x)
	x2.Mod(x2, Modulus)
	x4 := new(big.Int).Mul(x2, x2)
	x4.Mod(x4, Modulus)
	x5 := x4.Mul(x4, x)
	return x5.Mod(x5, Modulus)
}

// mixMDS multiplies the state vector by the MDS matrix.
func mixMDS(state []*big.Int, mds [][]*big.Int) []*big.Int {
	t := len(state)
	out := make([]*big.Int, t)
	for i := 0; i < t; i++ {
		sum := new(big.Int)
		for j := 0; j < t; j++ {
			sum.Add(sum, new(big.Int).Mul(mds[i][j], state[j]))
		}
		out[i] = sum.Mod(sum, Modulus)
	}
	return out
}

// permute applies the full Poseidon permutation in place.
func permute(state []*big.Int, p *PoseidonParams) []*big.Int {
	half := p.FullRounds / 2
	rc := 0

	addConstants := func() {
		for i := range state {
			state[i] = new(big.Int).Add(state[i], p.RoundConstants[rc])
			state[i].Mod(state[i], Modulus)
			rc++
		}
	}

	for r := 0; r < half; r++ {
		addConstants()
		for i := range state {
			state[i] = sbox(state[i])
		}
		state = mixMDS(state, p.MDS)
	}
	for r := 0; r < p.PartialRounds; r++ {
		addConstants()
		state[0] = sbox(state[0])
		state = mixMDS(state, p.MDS)
	}
	for r := 0; r < half; r++ {
		addConstants()
		for i := range state {
			state[i] = sbox(state[i])
		}
		state = mixMDS(state, p.MDS)
	}
	return state
}

// PoseidonHash absorbs the inputs into a capacity-1 sponge and squeezes one
// field element. The single-input form is the per-step commitment hash.
func PoseidonHash(inputs ...*big.Int) *big.Int {
	p := DefaultPoseidonParams()
	rate := p.T - 1

	state := make([]*big.Int, p.T)
	for i := range state {
		state[i] = new(big.Int)
	}

	for i := 0; i < len(inputs); i += rate {
		for j := 0; j < rate && i+j < len(inputs); j++ {
			v := new(big.Int).Mod(inputs[i+j], Modulus)
			state[j+1].Add(state[j+1], v)
			state[j+1].Mod(state[j+1], Modulus)
		}
		state = permute(state, p)
	}
	if len(inputs) == 0 {
		state = permute(state, p)
	}
	return new(big.Int).Set(state[0])
}
