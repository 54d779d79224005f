package fsm

import (
	"math"
	"testing"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/store"
	"github.com/stretchr/testify/require"
)

func TestAccountLedger(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.Mint(tokenX, wallet1, 100))
	require.NoError(t, ledger.Debit(tokenX, wallet1, 40))
	require.NoError(t, ledger.Credit(tokenX, wallet2, 40))
	got, err := ledger.GetBalance(tokenX, wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(60), got)
	got, err = ledger.GetBalance(tokenX, wallet2)
	require.NoError(t, err)
	require.Equal(t, uint64(40), got)
	// balances are per asset
	got, err = ledger.GetBalance(tokenY, wallet1)
	require.NoError(t, err)
	require.Zero(t, got)
	require.ErrorIs(t, ledger.Debit(tokenX, wallet1, 61), ErrInsufficientFunds())
	require.NoError(t, ledger.Credit(tokenX, wallet2, math.MaxUint64-40))
	require.ErrorIs(t, ledger.Credit(tokenX, wallet2, 1), ErrAmountOverflow())
}

func TestAccountLedgerMint(t *testing.T) {
	tests := []struct {
		name   string
		asset  AssetId
		to     string
		amount uint64
		error  error
	}{
		{name: "valid", asset: tokenX, to: wallet1, amount: 1},
		{name: "zero amount", asset: tokenX, to: wallet1, amount: 0, error: ErrInvalidAmount()},
		{name: "empty asset", asset: "", to: wallet1, amount: 1, error: ErrInvalidAsset()},
		{name: "empty address", asset: tokenX, to: "", amount: 1, error: ErrInvalidAddress()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := newTestLedger(t).Mint(test.asset, test.to, test.amount)
			if test.error != nil {
				require.ErrorIs(t, err, test.error)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestJournalRevert(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.Mint(tokenX, wallet1, 100))
	require.NoError(t, ledger.Mint(tokenY, wallet2, 100))
	j := newJournal(ledger, lib.NewNullLogger())
	require.NoError(t, j.transfer(tokenX, wallet1, wallet2, 30))
	require.NoError(t, j.transfer(tokenY, wallet2, wallet1, 70))
	require.NoError(t, j.transfer(tokenY, wallet2, wallet1, 0))
	err := j.transfer(tokenY, wallet2, wallet1, 31)
	require.ErrorIs(t, err, ErrLedgerTransferFailed(ErrInsufficientFunds()))
	j.revert()
	for _, c := range []struct {
		asset    AssetId
		address  string
		expected uint64
	}{
		{tokenX, wallet1, 100},
		{tokenX, wallet2, 0},
		{tokenY, wallet1, 0},
		{tokenY, wallet2, 100},
	} {
		got, e := ledger.GetBalance(c.asset, c.address)
		require.NoError(t, e)
		require.Equal(t, c.expected, got)
	}
	require.Empty(t, j.applied)
}

func TestStagedLedger(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.Mint(tokenX, wallet1, 100))
	staged := ledger.stage()
	require.NoError(t, staged.Debit(tokenX, wallet1, 80))
	require.ErrorIs(t, staged.Debit(tokenX, wallet1, 21), ErrInsufficientFunds())
	// credits made earlier in the operation can be spent
	require.NoError(t, staged.Credit(tokenY, wallet2, 30))
	require.NoError(t, staged.Debit(tokenY, wallet2, 30))
	// nothing is visible before settlement
	got, err := ledger.GetBalance(tokenX, wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
	txn := store.NewTxn(ledger.store)
	require.NoError(t, staged.settle(txn))
	got, err = ledger.GetBalance(tokenX, wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(20), got)
	got, err = ledger.GetBalance(tokenY, wallet2)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestStagedLedgerRechecksAtSettle(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.Mint(tokenX, wallet1, 100))
	staged := ledger.stage()
	require.NoError(t, staged.Debit(tokenX, wallet1, 80))
	// the same funds are spent elsewhere before the operation commits
	require.NoError(t, ledger.Debit(tokenX, wallet1, 50))
	txn := store.NewTxn(ledger.store)
	require.ErrorIs(t, staged.settle(txn), ErrLedgerTransferFailed(ErrInsufficientFunds()))
	got, err := ledger.GetBalance(tokenX, wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(50), got)
}

func TestOperationCommitsBalancesWithPool(t *testing.T) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	counting := &countingStore{Store: db}
	sm, err := New(lib.DefaultConfig(), counting, nil, nil, log)
	require.NoError(t, err)
	require.NoError(t, sm.Mint(tokenX, wallet1, startBal))
	require.NoError(t, sm.Mint(tokenY, wallet1, startBal))
	_, err = sm.CreatePool(wallet1, tokenX, tokenY, 100000, 100000)
	require.NoError(t, err)
	// a refused batch leaves balances and reserves as they were
	counting.failBatch = true
	_, err = sm.SwapXForY(wallet1, tokenX, tokenY, 10000, 0)
	require.Error(t, err)
	counting.failBatch = false
	requireBalance(t, sm, tokenX, wallet1, startBal-100000)
	requireBalance(t, sm, tokenY, wallet1, startBal-100000)
	requireDetails(t, sm, tokenX, tokenY, PoolDetails{ReserveX: 100000, ReserveY: 100000, TotalLiquidity: 100000})
	// a swap reaches the database as a single write
	counting.writes = 0
	out, err := sm.SwapXForY(wallet1, tokenX, tokenY, 10000, 0)
	require.NoError(t, err)
	require.Equal(t, 1, counting.writes)
	requireBalance(t, sm, tokenY, wallet1, startBal-100000+out)
	pool, err := sm.GetPool(tokenX, tokenY)
	require.NoError(t, err)
	requireCustodyMatchesReserves(t, sm, pool)
}

func TestMintUnsupportedLedger(t *testing.T) {
	sm := newTestStateMachine(t)
	sm.ledger = debitCreditOnly{sm.ledger}
	require.ErrorIs(t, sm.Mint(tokenX, wallet1, 1), ErrLedgerUnsupported(""))
	_, err := sm.GetBalance(tokenX, wallet1)
	require.ErrorIs(t, err, ErrLedgerUnsupported(""))
}

// debitCreditOnly hides every optional ledger capability
type debitCreditOnly struct{ LedgerAdapter }

func newTestLedger(t *testing.T) *AccountLedger {
	db, err := store.NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountLedger(db, lib.NewNullLogger())
}

// countingStore counts the writes that reach the database and can refuse batches
type countingStore struct {
	*store.Store
	writes    int
	failBatch bool
}

func (c *countingStore) Set(key, value []byte) lib.ErrorI {
	c.writes++
	return c.Store.Set(key, value)
}

func (c *countingStore) Delete(key []byte) lib.ErrorI {
	c.writes++
	return c.Store.Delete(key)
}

func (c *countingStore) WriteBatch(ops []lib.StoreOp) lib.ErrorI {
	c.writes++
	if c.failBatch {
		return lib.NewError(lib.NoCode, lib.StorageModule, "batch refused")
	}
	return c.Store.WriteBatch(ops)
}

func (c *countingStore) NewTxn() lib.TxnI { return store.NewTxn(c) }
