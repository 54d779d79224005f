package fsm

import (
	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/lib/codec"
)

// Position is the share of a pool's liquidity owned by one provider
type Position struct {
	Key       PoolKey `json:"key"`
	Provider  string  `json:"provider"`
	Liquidity uint64  `json:"liquidity"`
}

// GetPosition() returns the provider's liquidity units in the pair's pool; zero when none are held
func (s *StateMachine) GetPosition(assetA, assetB AssetId, provider string) (*Position, lib.ErrorI) {
	key, err := NewPoolKey(assetA, assetB)
	if err != nil {
		return nil, err
	}
	lock := s.poolLock(key)
	lock.RLock()
	defer lock.RUnlock()
	return getPosition(s.store, key, provider)
}

// GetPositions() lists every provider of the pair's pool ordered by address
func (s *StateMachine) GetPositions(assetA, assetB AssetId) ([]*Position, lib.ErrorI) {
	key, err := NewPoolKey(assetA, assetB)
	if err != nil {
		return nil, err
	}
	lock := s.poolLock(key)
	lock.RLock()
	defer lock.RUnlock()
	it, err := s.store.Iterator(PositionPrefix(key))
	if err != nil {
		return nil, err
	}
	defer it.Close()
	positions := make([]*Position, 0)
	for ; it.Valid(); it.Next() {
		segments := lib.DecodeLengthPrefixed(it.Key())
		if len(segments) != 4 {
			return nil, ErrInvalidKey(it.Key())
		}
		p, e := unmarshalPosition(key, string(segments[3]), it.Value())
		if e != nil {
			return nil, e
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// addPosition() credits minted units to a provider
func (o *operation) addPosition(key PoolKey, provider string, units uint64) lib.ErrorI {
	p, err := getPosition(o.txn, key, provider)
	if err != nil {
		return err
	}
	sum, ok := lib.SafeAdd(p.Liquidity, units)
	if !ok {
		return ErrAmountOverflow()
	}
	p.Liquidity = sum
	return o.setPosition(p)
}

// subPosition() burns units from a provider
func (o *operation) subPosition(key PoolKey, provider string, units uint64) lib.ErrorI {
	p, err := getPosition(o.txn, key, provider)
	if err != nil {
		return err
	}
	if p.Liquidity < units {
		return ErrInsufficientLiquidity()
	}
	p.Liquidity -= units
	return o.setPosition(p)
}

func (o *operation) setPosition(p *Position) lib.ErrorI {
	key := KeyForPosition(p.Key, p.Provider)
	if p.Liquidity == 0 {
		return o.txn.Delete(key)
	}
	bz, err := codec.Marshal(codec.Field{Num: 1, Value: p.Liquidity})
	if err != nil {
		return lib.ErrMarshal(err)
	}
	return o.txn.Set(key, bz)
}

func getPosition(store lib.RStoreI, key PoolKey, provider string) (*Position, lib.ErrorI) {
	bz, err := store.Get(KeyForPosition(key, provider))
	if err != nil {
		return nil, err
	}
	return unmarshalPosition(key, provider, bz)
}

func unmarshalPosition(key PoolKey, provider string, bz []byte) (*Position, lib.ErrorI) {
	p := &Position{Key: key, Provider: provider}
	if err := codec.Unmarshal(bz, map[codec.Number]any{1: &p.Liquidity}); err != nil {
		return nil, lib.ErrUnmarshal(err)
	}
	return p, nil
}
