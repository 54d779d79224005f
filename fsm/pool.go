package fsm

import (
	"fmt"
	"strings"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/lib/codec"
)

// MaxIdLength bounds asset ids and addresses so they fit a length prefixed key segment
const MaxIdLength = 64

// AssetId is an opaque fungible token identifier, ordered lexicographically
type AssetId string

// Validate() ensures the id is usable as a key segment
func (a AssetId) Validate() lib.ErrorI {
	if len(a) == 0 || len(a) > MaxIdLength {
		return ErrInvalidAsset()
	}
	return nil
}

// PoolKey is the canonical ordered pair identifying a pool; Low sorts before High
type PoolKey struct {
	Low  AssetId `json:"low"`
	High AssetId `json:"high"`
}

// NewPoolKey() orders two asset ids into a canonical key so (a, b) and (b, a) name the same pool
func NewPoolKey(a, b AssetId) (PoolKey, lib.ErrorI) {
	if err := a.Validate(); err != nil {
		return PoolKey{}, err
	}
	if err := b.Validate(); err != nil {
		return PoolKey{}, err
	}
	switch strings.Compare(string(a), string(b)) {
	case 0:
		return PoolKey{}, ErrIdenticalAssets()
	case 1:
		return PoolKey{Low: b, High: a}, nil
	}
	return PoolKey{Low: a, High: b}, nil
}

// Flipped() reports whether the caller's first asset is the canonical high side
func (k PoolKey) Flipped(first AssetId) bool { return first != k.Low }

// PoolAddressPrefix starts every custody address; wallets may not use it
const PoolAddressPrefix = "pool:"

// maxCustodyAddressLength is the longest address PoolKey.Address() can produce
const maxCustodyAddressLength = len(PoolAddressPrefix) + 2 + 1 + 2*MaxIdLength + 1

// Address() is the ledger account that custodies the pool's reserves.
// The length of Low is part of the address so no two pairs share one.
func (k PoolKey) Address() string {
	return fmt.Sprintf("%s%d:%s/%s", PoolAddressPrefix, len(k.Low), k.Low, k.High)
}

// String() formats the key as a pair
func (k PoolKey) String() string { return fmt.Sprintf("%s/%s", k.Low, k.High) }

// Pool is the reserve and liquidity accounting of a single canonical pair
type Pool struct {
	Key            PoolKey `json:"key"`
	ReserveLow     uint64  `json:"reserveLow"`
	ReserveHigh    uint64  `json:"reserveHigh"`
	TotalLiquidity uint64  `json:"totalLiquidity"`
}

// Inert() is true once every liquidity unit was withdrawn
func (p *Pool) Inert() bool { return p.TotalLiquidity == 0 }

// Oriented() returns the reserves in the caller's (first, second) order
func (p *Pool) Oriented(first AssetId) (reserveFirst, reserveSecond uint64) {
	if p.Key.Flipped(first) {
		return p.ReserveHigh, p.ReserveLow
	}
	return p.ReserveLow, p.ReserveHigh
}

// setOriented() assigns reserves given in the caller's (first, second) order
func (p *Pool) setOriented(first AssetId, reserveFirst, reserveSecond uint64) {
	if p.Key.Flipped(first) {
		p.ReserveHigh, p.ReserveLow = reserveFirst, reserveSecond
		return
	}
	p.ReserveLow, p.ReserveHigh = reserveFirst, reserveSecond
}

// CreatePool() registers a new pool for the pair seeded with both deposits from the sender
func (s *StateMachine) CreatePool(sender string, assetA, assetB AssetId, amountA, amountB uint64) (key PoolKey, err lib.ErrorI) {
	if key, err = NewPoolKey(assetA, assetB); err != nil {
		return
	}
	if err = validateAddress(sender); err != nil {
		return
	}
	err = s.execute("create_pool", key, func(op *operation) lib.ErrorI {
		existing, e := op.getPool(key)
		if e != nil {
			return e
		}
		if existing != nil {
			return ErrPoolAlreadyExists(key)
		}
		if amountA == 0 || amountB == 0 {
			return ErrInvalidAmount()
		}
		// equal deposits of R seed exactly R units
		minted := lib.SqrtProductUint64(amountA, amountB)
		if minted == 0 {
			return ErrInvalidAmount()
		}
		if e = op.deposit(assetA, sender, key, amountA); e != nil {
			return e
		}
		if e = op.deposit(assetB, sender, key, amountB); e != nil {
			return e
		}
		pool := &Pool{Key: key, TotalLiquidity: minted}
		pool.setOriented(assetA, amountA, amountB)
		if e = op.setPool(pool); e != nil {
			return e
		}
		if e = op.addPosition(key, sender, minted); e != nil {
			return e
		}
		op.emit(&Event{Type: EventTypeCreatePool, Pool: key, Address: sender,
			AssetA: assetA, AssetB: assetB, AmountA: amountA, AmountB: amountB, Liquidity: minted})
		return nil
	})
	return
}

// GetPool() returns the pool of the unordered pair or nil when none was created
func (s *StateMachine) GetPool(assetA, assetB AssetId) (*Pool, lib.ErrorI) {
	key, err := NewPoolKey(assetA, assetB)
	if err != nil {
		return nil, err
	}
	lock := s.poolLock(key)
	lock.RLock()
	defer lock.RUnlock()
	return getPool(s.store, key)
}

// GetPools() returns every pool ordered by key
func (s *StateMachine) GetPools() ([]*Pool, lib.ErrorI) {
	it, err := s.store.Iterator(PoolPrefix())
	if err != nil {
		return nil, err
	}
	defer it.Close()
	pools := make([]*Pool, 0)
	for ; it.Valid(); it.Next() {
		p, e := unmarshalPool(it.Value())
		if e != nil {
			return nil, e
		}
		pools = append(pools, p)
	}
	return pools, nil
}

// getPool() reads a pool record; a missing record is nil without error
func getPool(store lib.RStoreI, key PoolKey) (*Pool, lib.ErrorI) {
	bz, err := store.Get(KeyForPool(key))
	if err != nil || bz == nil {
		return nil, err
	}
	return unmarshalPool(bz)
}

func marshalPool(p *Pool) ([]byte, lib.ErrorI) {
	bz, err := codec.Marshal(
		codec.Field{Num: 1, Value: string(p.Key.Low)},
		codec.Field{Num: 2, Value: string(p.Key.High)},
		codec.Field{Num: 3, Value: p.ReserveLow},
		codec.Field{Num: 4, Value: p.ReserveHigh},
		codec.Field{Num: 5, Value: p.TotalLiquidity},
	)
	if err != nil {
		return nil, lib.ErrMarshal(err)
	}
	return bz, nil
}

func unmarshalPool(bz []byte) (*Pool, lib.ErrorI) {
	var low, high string
	p := new(Pool)
	if err := codec.Unmarshal(bz, map[codec.Number]any{
		1: &low, 2: &high, 3: &p.ReserveLow, 4: &p.ReserveHigh, 5: &p.TotalLiquidity,
	}); err != nil {
		return nil, lib.ErrUnmarshal(err)
	}
	p.Key = PoolKey{Low: AssetId(low), High: AssetId(high)}
	return p, nil
}

// validateAddress() checks a wallet address; custody addresses are reserved for pools
func validateAddress(address string) lib.ErrorI {
	if len(address) == 0 || len(address) > MaxIdLength || strings.HasPrefix(address, PoolAddressPrefix) {
		return ErrInvalidAddress()
	}
	return nil
}

// validateAccount() checks an address that is only read; custody addresses are allowed
func validateAccount(address string) lib.ErrorI {
	if strings.HasPrefix(address, PoolAddressPrefix) {
		if len(address) > maxCustodyAddressLength {
			return ErrInvalidAddress()
		}
		return nil
	}
	return validateAddress(address)
}
