package fsm

import (
	"fmt"
	"sync"
	"testing"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/store"
	"github.com/stretchr/testify/require"
)

const (
	tokenX   = AssetId("token-x")
	tokenY   = AssetId("token-y")
	tokenZ   = AssetId("token-z")
	wallet1  = "wallet_1"
	wallet2  = "wallet_2"
	startBal = uint64(1_000_000_000)
)

func TestNewRejectsInvalidFee(t *testing.T) {
	db, err := store.NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	defer db.Close()
	config := lib.DefaultConfig()
	config.SwapFeeBasisPoints = lib.MaxBasisPoints
	_, err = New(config, db, nil, nil, lib.NewNullLogger())
	require.ErrorIs(t, err, lib.ErrInvalidArgument())
}

func TestInitializeRestoresEventSequence(t *testing.T) {
	sm := newTestStateMachine(t)
	_, err := sm.CreatePool(wallet1, tokenX, tokenY, 100, 100)
	require.NoError(t, err)
	_, err = sm.SwapXForY(wallet1, tokenX, tokenY, 10, 0)
	require.NoError(t, err)
	// a second state machine over the same store continues the sequence
	restarted, err := New(sm.Config, sm.store, sm.ledger, nil, lib.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, uint64(2), restarted.lastEvent)
	_, err = restarted.SwapYForX(wallet1, tokenX, tokenY, 10, 0)
	require.NoError(t, err)
	events, err := restarted.GetEvents(0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, uint64(3), events[2].Sequence)
}

func TestConcurrentSwapsAreSerialized(t *testing.T) {
	sm := newTestStateMachine(t)
	_, err := sm.CreatePool(wallet1, tokenX, tokenY, 1_000_000, 1_000_000)
	require.NoError(t, err)
	traders := 8
	for i := 0; i < traders; i++ {
		require.NoError(t, sm.Mint(tokenX, traderName(i), startBal))
		require.NoError(t, sm.Mint(tokenY, traderName(i), startBal))
	}
	var wg sync.WaitGroup
	for i := 0; i < traders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				var e lib.ErrorI
				if (i+j)%2 == 0 {
					_, e = sm.SwapXForY(traderName(i), tokenX, tokenY, 1_000, 0)
				} else {
					_, e = sm.SwapYForX(traderName(i), tokenX, tokenY, 1_000, 0)
				}
				if e != nil {
					t.Error(e)
				}
				// reads run alongside the writers
				if _, e = sm.GetPoolDetails(tokenY, tokenX); e != nil {
					t.Error(e)
				}
			}
		}(i)
	}
	wg.Wait()
	// the custody balances always match the reserves
	pool, err := sm.GetPool(tokenX, tokenY)
	require.NoError(t, err)
	requireCustodyMatchesReserves(t, sm, pool)
	events, err := sm.GetEvents(0, 1000)
	require.NoError(t, err)
	require.Len(t, events, 1+traders*20)
	for i, e := range events {
		require.Equal(t, uint64(i+1), e.Sequence)
	}
}

func TestConcurrentSwapsAcrossPoolsConserveTokens(t *testing.T) {
	sm := newTestStateMachine(t)
	_, err := sm.CreatePool(wallet1, tokenX, tokenY, 1_000_000, 1_000_000)
	require.NoError(t, err)
	_, err = sm.CreatePool(wallet1, tokenX, tokenZ, 1_000_000, 1_000_000)
	require.NoError(t, err)
	// one wallet sells X into both pools at once and can afford only part of the orders
	trader := traderName(0)
	require.NoError(t, sm.Mint(tokenX, trader, 50_000))
	var wg sync.WaitGroup
	var mu sync.Mutex
	filled := 0
	for _, out := range []AssetId{tokenY, tokenZ} {
		for j := 0; j < 10; j++ {
			wg.Add(1)
			go func(out AssetId) {
				defer wg.Done()
				_, e := sm.SwapXForY(trader, tokenX, out, 5_000, 0)
				if e == nil {
					mu.Lock()
					filled++
					mu.Unlock()
					return
				}
				if !lib.IsCode(e, lib.DexModule, lib.CodeLedgerTransferFailed) {
					t.Error(e)
				}
			}(out)
		}
	}
	wg.Wait()
	require.Equal(t, 10, filled)
	requireBalance(t, sm, tokenX, trader, 0)
	// every X sold sits in one of the two custody accounts
	var custodied uint64
	for _, out := range []AssetId{tokenY, tokenZ} {
		pool, e := sm.GetPool(tokenX, out)
		require.NoError(t, e)
		requireCustodyMatchesReserves(t, sm, pool)
		custodied += pool.ReserveLow - 1_000_000
	}
	require.Equal(t, uint64(50_000), custodied)
}

func traderName(i int) string { return fmt.Sprintf("trader_%d", i) }

// newTestStateMachine() creates a zero fee engine over an in-memory store with two funded wallets
func newTestStateMachine(t *testing.T) *StateMachine {
	return newTestStateMachineWithLedger(t, nil)
}

// newTestStateMachineWithLedger() lets the test wrap the default ledger
func newTestStateMachineWithLedger(t *testing.T, wrap func(*AccountLedger) LedgerAdapter) *StateMachine {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	var ledger LedgerAdapter = NewAccountLedger(db, log)
	if wrap != nil {
		ledger = wrap(ledger.(*AccountLedger))
	}
	sm, err := New(lib.DefaultConfig(), db, ledger, nil, log)
	require.NoError(t, err)
	for _, w := range []string{wallet1, wallet2} {
		for _, a := range []AssetId{tokenX, tokenY, tokenZ} {
			require.NoError(t, sm.Mint(a, w, startBal))
		}
	}
	return sm
}

func requireBalance(t *testing.T, sm *StateMachine, asset AssetId, address string, expected uint64) {
	t.Helper()
	got, err := sm.GetBalance(asset, address)
	require.NoError(t, err)
	require.Equal(t, expected, got)
}

func requireCustodyMatchesReserves(t *testing.T, sm *StateMachine, pool *Pool) {
	t.Helper()
	requireBalance(t, sm, pool.Key.Low, pool.Key.Address(), pool.ReserveLow)
	requireBalance(t, sm, pool.Key.High, pool.Key.Address(), pool.ReserveHigh)
}

// failingLedger wraps an AccountLedger and fails the nth call (1 based) of the selected kind
type failingLedger struct {
	*AccountLedger
	failDebitAt, failCreditAt int
	debits, credits           int
}

func (f *failingLedger) Debit(asset AssetId, from string, amount uint64) lib.ErrorI {
	f.debits++
	if f.debits == f.failDebitAt {
		return lib.NewError(lib.NoCode, lib.DexModule, "debit refused")
	}
	return f.AccountLedger.Debit(asset, from, amount)
}

func (f *failingLedger) Credit(asset AssetId, to string, amount uint64) lib.ErrorI {
	f.credits++
	if f.credits == f.failCreditAt {
		return lib.NewError(lib.NoCode, lib.DexModule, "credit refused")
	}
	return f.AccountLedger.Credit(asset, to, amount)
}
