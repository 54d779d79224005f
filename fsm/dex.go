package fsm

import (
	"github.com/baarbz/DecentralizedExchange/lib"
)

/*
	Constant product pool operations.
	Every amount is an integer; divisions floor in favor of the pool except the counter deposit of
	AddLiquidity which rounds up, so the reserve ratio can never move against existing providers.
*/

// AddLiquidity() deposits amountA of the first asset plus the proportional amount of the second and
// returns the liquidity units minted to the sender; minAmountB is the smallest counter deposit the sender accepts
func (s *StateMachine) AddLiquidity(sender string, assetA, assetB AssetId, amountA, minAmountB uint64) (minted uint64, err lib.ErrorI) {
	key, err := NewPoolKey(assetA, assetB)
	if err != nil {
		return 0, err
	}
	if err = validateAddress(sender); err != nil {
		return 0, err
	}
	err = s.execute("add_liquidity", key, func(op *operation) lib.ErrorI {
		pool, e := op.getPool(key)
		if e != nil {
			return e
		}
		if pool == nil {
			return ErrPoolNotFound(key)
		}
		if amountA == 0 {
			return ErrInvalidAmount()
		}
		if pool.Inert() {
			return ErrInsufficientLiquidity()
		}
		reserveA, reserveB := pool.Oriented(assetA)
		// amountB = ceil(amountA * reserveB / reserveA)
		amountB, ok := lib.SafeMulDivCeil(amountA, reserveB, reserveA)
		if !ok {
			return ErrAmountOverflow()
		}
		if amountB < minAmountB {
			return ErrSlippageExceeded(amountB, minAmountB)
		}
		// minted = floor(amountA * totalLiquidity / reserveA)
		units, ok := lib.SafeMulDiv(amountA, pool.TotalLiquidity, reserveA)
		if !ok {
			return ErrAmountOverflow()
		}
		if units == 0 {
			return ErrInvalidAmount()
		}
		newA, okA := lib.SafeAdd(reserveA, amountA)
		newB, okB := lib.SafeAdd(reserveB, amountB)
		total, okL := lib.SafeAdd(pool.TotalLiquidity, units)
		if !okA || !okB || !okL {
			return ErrAmountOverflow()
		}
		if e = op.deposit(assetA, sender, key, amountA); e != nil {
			return e
		}
		if e = op.deposit(assetB, sender, key, amountB); e != nil {
			return e
		}
		pool.setOriented(assetA, newA, newB)
		pool.TotalLiquidity = total
		if e = op.setPool(pool); e != nil {
			return e
		}
		if e = op.addPosition(key, sender, units); e != nil {
			return e
		}
		op.emit(&Event{Type: EventTypeAddLiquidity, Pool: key, Address: sender,
			AssetA: assetA, AssetB: assetB, AmountA: amountA, AmountB: amountB, Liquidity: units})
		minted = units
		return nil
	})
	return
}

// RemoveLiquidity() burns units of the sender's position and pays out the proportional share of
// both reserves, returned in the caller's (assetA, assetB) order
func (s *StateMachine) RemoveLiquidity(sender string, assetA, assetB AssetId, units, minAmountA, minAmountB uint64) (outA, outB uint64, err lib.ErrorI) {
	key, err := NewPoolKey(assetA, assetB)
	if err != nil {
		return 0, 0, err
	}
	if err = validateAddress(sender); err != nil {
		return 0, 0, err
	}
	err = s.execute("remove_liquidity", key, func(op *operation) lib.ErrorI {
		pool, e := op.getPool(key)
		if e != nil {
			return e
		}
		if pool == nil {
			return ErrPoolNotFound(key)
		}
		if units == 0 {
			return ErrInvalidAmount()
		}
		if units > pool.TotalLiquidity {
			return ErrInsufficientLiquidity()
		}
		reserveA, reserveB := pool.Oriented(assetA)
		// out = floor(units * reserve / totalLiquidity)
		a, okA := lib.SafeMulDiv(units, reserveA, pool.TotalLiquidity)
		b, okB := lib.SafeMulDiv(units, reserveB, pool.TotalLiquidity)
		if !okA || !okB {
			return ErrAmountOverflow()
		}
		if a == 0 && b == 0 {
			return ErrInsufficientLiquidity()
		}
		if a < minAmountA {
			return ErrSlippageExceeded(a, minAmountA)
		}
		if b < minAmountB {
			return ErrSlippageExceeded(b, minAmountB)
		}
		if e = op.subPosition(key, sender, units); e != nil {
			return e
		}
		if e = op.withdraw(assetA, key, sender, a); e != nil {
			return e
		}
		if e = op.withdraw(assetB, key, sender, b); e != nil {
			return e
		}
		pool.setOriented(assetA, reserveA-a, reserveB-b)
		pool.TotalLiquidity -= units
		if e = op.setPool(pool); e != nil {
			return e
		}
		op.emit(&Event{Type: EventTypeRemoveLiquidity, Pool: key, Address: sender,
			AssetA: assetA, AssetB: assetB, AmountA: a, AmountB: b, Liquidity: units})
		outA, outB = a, b
		return nil
	})
	return
}

// SwapXForY() sells amountIn of assetX for assetY
func (s *StateMachine) SwapXForY(sender string, assetX, assetY AssetId, amountIn, minAmountOut uint64) (uint64, lib.ErrorI) {
	return s.swap(sender, assetX, assetY, amountIn, minAmountOut)
}

// SwapYForX() sells amountIn of assetY for assetX
func (s *StateMachine) SwapYForX(sender string, assetX, assetY AssetId, amountIn, minAmountOut uint64) (uint64, lib.ErrorI) {
	return s.swap(sender, assetY, assetX, amountIn, minAmountOut)
}

// Quote() previews the output of selling amountIn of assetIn without changing state
func (s *StateMachine) Quote(assetIn, assetOut AssetId, amountIn uint64) (uint64, lib.ErrorI) {
	key, err := NewPoolKey(assetIn, assetOut)
	if err != nil {
		return 0, err
	}
	lock := s.poolLock(key)
	lock.RLock()
	defer lock.RUnlock()
	pool, err := getPool(s.store, key)
	if err != nil {
		return 0, err
	}
	r, err := s.computeSwap(key, pool, assetIn, amountIn)
	if err != nil {
		return 0, err
	}
	return r.amountOut, nil
}

func (s *StateMachine) swap(sender string, assetIn, assetOut AssetId, amountIn, minAmountOut uint64) (amountOut uint64, err lib.ErrorI) {
	key, err := NewPoolKey(assetIn, assetOut)
	if err != nil {
		return 0, err
	}
	if err = validateAddress(sender); err != nil {
		return 0, err
	}
	err = s.execute("swap", key, func(op *operation) lib.ErrorI {
		pool, e := op.getPool(key)
		if e != nil {
			return e
		}
		r, e := s.computeSwap(key, pool, assetIn, amountIn)
		if e != nil {
			return e
		}
		if r.amountOut < minAmountOut {
			return ErrSlippageExceeded(r.amountOut, minAmountOut)
		}
		if e = op.deposit(assetIn, sender, key, amountIn); e != nil {
			return e
		}
		if e = op.withdraw(assetOut, key, sender, r.amountOut); e != nil {
			return e
		}
		pool.setOriented(assetIn, r.reserveIn, r.reserveOut)
		if e = op.setPool(pool); e != nil {
			return e
		}
		op.emit(&Event{Type: EventTypeSwap, Pool: key, Address: sender,
			AssetA: assetIn, AssetB: assetOut, AmountA: amountIn, AmountB: r.amountOut})
		amountOut = r.amountOut
		return nil
	})
	return
}

// swapResult is the outcome of a swap against a pool snapshot
type swapResult struct {
	amountOut  uint64
	reserveIn  uint64 // reserve of the sold asset after the swap
	reserveOut uint64 // reserve of the bought asset after the swap
}

// computeSwap() prices a swap with the configured fee and checks the product does not decrease
func (s *StateMachine) computeSwap(key PoolKey, pool *Pool, assetIn AssetId, amountIn uint64) (*swapResult, lib.ErrorI) {
	if pool == nil {
		return nil, ErrPoolNotFound(key)
	}
	if amountIn == 0 {
		return nil, ErrInvalidAmount()
	}
	if pool.Inert() {
		return nil, ErrInsufficientLiquidity()
	}
	reserveIn, reserveOut := pool.Oriented(assetIn)
	out, ok := lib.ComputeAmountOut(reserveIn, reserveOut, amountIn, s.Config.SwapFeeBasisPoints)
	if !ok || out == 0 || out >= reserveOut {
		return nil, ErrInsufficientLiquidity()
	}
	newIn, ok := lib.SafeAdd(reserveIn, amountIn)
	if !ok {
		return nil, ErrAmountOverflow()
	}
	newOut := reserveOut - out
	if !lib.ProductGTE(newIn, newOut, reserveIn, reserveOut) {
		return nil, ErrInvariantViolated()
	}
	return &swapResult{amountOut: out, reserveIn: newIn, reserveOut: newOut}, nil
}
