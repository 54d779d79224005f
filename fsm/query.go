package fsm

import "github.com/baarbz/DecentralizedExchange/lib"

// PoolDetails is a pool viewed in the caller's asset order
type PoolDetails struct {
	ReserveX       uint64 `json:"reserve-x"`
	ReserveY       uint64 `json:"reserve-y"`
	TotalLiquidity uint64 `json:"total-liquidity"`
}

// GetPoolDetails() returns the reserves of the pair with reserve-x belonging to assetX
// a pair that cannot name a pool (unknown, identical or empty ids) has no details
func (s *StateMachine) GetPoolDetails(assetX, assetY AssetId) (*PoolDetails, lib.ErrorI) {
	if _, e := NewPoolKey(assetX, assetY); e != nil {
		return nil, nil
	}
	pool, err := s.GetPool(assetX, assetY)
	if err != nil || pool == nil {
		return nil, err
	}
	x, y := pool.Oriented(assetX)
	return &PoolDetails{ReserveX: x, ReserveY: y, TotalLiquidity: pool.TotalLiquidity}, nil
}

// BalanceReader is implemented by ledgers that can report balances
type BalanceReader interface {
	GetBalance(asset AssetId, address string) (uint64, lib.ErrorI)
}

// GetBalance() reads a wallet or pool custody balance from the ledger when it supports reads
func (s *StateMachine) GetBalance(asset AssetId, address string) (uint64, lib.ErrorI) {
	if err := asset.Validate(); err != nil {
		return 0, err
	}
	if err := validateAccount(address); err != nil {
		return 0, err
	}
	reader, ok := s.ledger.(BalanceReader)
	if !ok {
		return 0, ErrLedgerUnsupported("balance reads")
	}
	return reader.GetBalance(asset, address)
}
