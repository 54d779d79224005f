package fsm

import (
	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/lib/codec"
)

// EventType names the operation an event records
type EventType string

const (
	EventTypeCreatePool      EventType = "create_pool"
	EventTypeAddLiquidity    EventType = "add_liquidity"
	EventTypeRemoveLiquidity EventType = "remove_liquidity"
	EventTypeSwap            EventType = "swap"
)

// DefaultEventPageSize caps GetEvents when no limit is given
const DefaultEventPageSize = 100

// Event is an entry of the append-only log of committed operations.
// Amounts follow the caller's asset order; for swaps AssetA is sold and AssetB is bought.
type Event struct {
	Sequence  uint64    `json:"sequence"`
	Type      EventType `json:"type"`
	Pool      PoolKey   `json:"pool"`
	Address   string    `json:"address"`
	AssetA    AssetId   `json:"assetA"`
	AssetB    AssetId   `json:"assetB"`
	AmountA   uint64    `json:"amountA"`
	AmountB   uint64    `json:"amountB"`
	Liquidity uint64    `json:"liquidity,omitempty"`
}

// GetEvents() returns up to limit events with a sequence of at least fromSequence, oldest first
func (s *StateMachine) GetEvents(fromSequence uint64, limit int) ([]*Event, lib.ErrorI) {
	if limit <= 0 {
		limit = DefaultEventPageSize
	}
	// event keys sort by sequence so the page starts with a seek
	it, err := s.store.SeekIterator(EventPrefix(), KeyForEvent(fromSequence))
	if err != nil {
		return nil, err
	}
	defer it.Close()
	events := make([]*Event, 0)
	for ; it.Valid() && len(events) < limit; it.Next() {
		e, er := unmarshalEvent(it.Value())
		if er != nil {
			return nil, er
		}
		events = append(events, e)
	}
	return events, nil
}

func marshalEvent(e *Event) ([]byte, lib.ErrorI) {
	bz, err := codec.Marshal(
		codec.Field{Num: 1, Value: e.Sequence},
		codec.Field{Num: 2, Value: string(e.Type)},
		codec.Field{Num: 3, Value: string(e.Pool.Low)},
		codec.Field{Num: 4, Value: string(e.Pool.High)},
		codec.Field{Num: 5, Value: e.Address},
		codec.Field{Num: 6, Value: string(e.AssetA)},
		codec.Field{Num: 7, Value: string(e.AssetB)},
		codec.Field{Num: 8, Value: e.AmountA},
		codec.Field{Num: 9, Value: e.AmountB},
		codec.Field{Num: 10, Value: e.Liquidity},
	)
	if err != nil {
		return nil, lib.ErrMarshal(err)
	}
	return bz, nil
}

func unmarshalEvent(bz []byte) (*Event, lib.ErrorI) {
	var typ, low, high, assetA, assetB string
	e := new(Event)
	if err := codec.Unmarshal(bz, map[codec.Number]any{
		1: &e.Sequence, 2: &typ, 3: &low, 4: &high, 5: &e.Address,
		6: &assetA, 7: &assetB, 8: &e.AmountA, 9: &e.AmountB, 10: &e.Liquidity,
	}); err != nil {
		return nil, lib.ErrUnmarshal(err)
	}
	e.Type, e.Pool = EventType(typ), PoolKey{Low: AssetId(low), High: AssetId(high)}
	e.AssetA, e.AssetB = AssetId(assetA), AssetId(assetB)
	return e, nil
}
