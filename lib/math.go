package lib

import "github.com/holiman/uint256"

/*
	Integer-only arithmetic for reserve and liquidity accounting.
	Every intermediate product is computed with 256 bits so uint64 reserves never wrap;
	results that do not fit back into a uint64 are reported with ok == false.
*/

// SafeMulDiv() returns floor(a * b / c)
func SafeMulDiv(a, b, c uint64) (res uint64, ok bool) {
	if c == 0 {
		return 0, false
	}
	q, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(a), uint256.NewInt(b), uint256.NewInt(c))
	if overflow || !q.IsUint64() {
		return 0, false
	}
	return q.Uint64(), true
}

// SafeMulDivCeil() returns ceil(a * b / c)
func SafeMulDivCeil(a, b, c uint64) (res uint64, ok bool) {
	if c == 0 {
		return 0, false
	}
	num := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(num, uint256.NewInt(c), r)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, false
	}
	return q.Uint64(), true
}

// SqrtProductUint64() returns floor(sqrt(a * b)); the result always fits 64 bits
func SqrtProductUint64(a, b uint64) uint64 {
	p := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return new(uint256.Int).Sqrt(p).Uint64()
}

// SafeAdd() returns a + b unless the sum overflows
func SafeAdd(a, b uint64) (uint64, bool) {
	s := a + b
	return s, s >= a
}

// ComputeAmountOut() executes the overflow protected constant product formula
// dY = (dX * (10000 - fee) * y) / (x * 10000 + dX * (10000 - fee))
// with feeBps == 0 this reduces to dY = (dX * y) / (x + dX)
func ComputeAmountOut(reserveIn, reserveOut, amountIn, feeBps uint64) (uint64, bool) {
	if feeBps >= MaxBasisPoints || reserveIn == 0 || reserveOut == 0 {
		return 0, false
	}
	bps := uint256.NewInt(MaxBasisPoints)
	// amountInWithFee = dX * (10000 - fee)
	amountInWithFee := new(uint256.Int).Mul(uint256.NewInt(amountIn), uint256.NewInt(MaxBasisPoints-feeBps))
	// numerator = amountInWithFee * y
	numerator := new(uint256.Int).Mul(amountInWithFee, uint256.NewInt(reserveOut))
	// denominator = x * 10000 + amountInWithFee
	denominator := new(uint256.Int).Mul(uint256.NewInt(reserveIn), bps)
	denominator.Add(denominator, amountInWithFee)
	// integer flooring
	out := new(uint256.Int).Div(numerator, denominator)
	if !out.IsUint64() {
		return 0, false
	}
	return out.Uint64(), true
}

// ProductGTE() reports a1 * b1 >= a0 * b0
func ProductGTE(a1, b1, a0, b0 uint64) bool {
	after := new(uint256.Int).Mul(uint256.NewInt(a1), uint256.NewInt(b1))
	before := new(uint256.Int).Mul(uint256.NewInt(a0), uint256.NewInt(b0))
	return !after.Lt(before)
}
