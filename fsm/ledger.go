package fsm

import (
	"math"
	"sync"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/lib/codec"
)

// LedgerAdapter moves token balances on behalf of the engine; every call either fully applies or fails
type LedgerAdapter interface {
	Debit(asset AssetId, from string, amount uint64) lib.ErrorI
	Credit(asset AssetId, to string, amount uint64) lib.ErrorI
}

var _ LedgerAdapter = &AccountLedger{}

// AccountLedger is the default LedgerAdapter, keeping balances per (asset, address) in the store
type AccountLedger struct {
	mu    sync.Mutex
	store lib.RWStoreI
	log   lib.LoggerI
}

// NewAccountLedger() creates a ledger over the store
func NewAccountLedger(store lib.RWStoreI, log lib.LoggerI) *AccountLedger {
	return &AccountLedger{store: store, log: log}
}

// Debit() removes amount from the balance or fails with ErrInsufficientFunds
func (l *AccountLedger) Debit(asset AssetId, from string, amount uint64) lib.ErrorI {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := KeyForBalance(asset, from)
	balance, err := getBalance(l.store, key)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds()
	}
	return setBalance(l.store, key, balance-amount)
}

// Credit() adds amount to the balance
func (l *AccountLedger) Credit(asset AssetId, to string, amount uint64) lib.ErrorI {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := KeyForBalance(asset, to)
	balance, err := getBalance(l.store, key)
	if err != nil {
		return err
	}
	sum, ok := lib.SafeAdd(balance, amount)
	if !ok {
		return ErrAmountOverflow()
	}
	return setBalance(l.store, key, sum)
}

// Mint() creates new tokens in a wallet
func (l *AccountLedger) Mint(asset AssetId, to string, amount uint64) lib.ErrorI {
	if err := asset.Validate(); err != nil {
		return err
	}
	if err := validateAddress(to); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount()
	}
	if err := l.Credit(asset, to, amount); err != nil {
		return err
	}
	l.log.Debugf("Minted %d %s to %s", amount, asset, to)
	return nil
}

// GetBalance() returns the balance of an address; unknown addresses hold zero
func (l *AccountLedger) GetBalance(asset AssetId, address string) (uint64, lib.ErrorI) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return getBalance(l.store, KeyForBalance(asset, address))
}

// stage() opens a view of the ledger for a single operation
func (l *AccountLedger) stage() *stagedLedger {
	return &stagedLedger{parent: l, debits: make(map[string]uint64), credits: make(map[string]uint64)}
}

var _ LedgerAdapter = &stagedLedger{}

/*
	stagedLedger accumulates the movements of one operation as per-balance totals.
	Debits are checked against the stored balance when made and again at settle(),
	since operations on other pools may spend the same wallet in between.
	Nothing reaches the store until settle() writes the final balances into the
	operation's txn, so balances land in the same batch as the pool records.
*/
type stagedLedger struct {
	parent  *AccountLedger
	debits  map[string]uint64 // keyed by balance store key
	credits map[string]uint64
}

// Debit() reserves amount out of the balance plus anything credited earlier in the operation
func (s *stagedLedger) Debit(asset AssetId, from string, amount uint64) lib.ErrorI {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	key := KeyForBalance(asset, from)
	balance, err := getBalance(s.parent.store, key)
	if err != nil {
		return err
	}
	available, ok := lib.SafeAdd(balance, s.credits[string(key)])
	if !ok {
		available = math.MaxUint64
	}
	debited := s.debits[string(key)]
	if available < debited || available-debited < amount {
		return ErrInsufficientFunds()
	}
	s.debits[string(key)] = debited + amount
	return nil
}

// Credit() records amount to be added at settlement
func (s *stagedLedger) Credit(asset AssetId, to string, amount uint64) lib.ErrorI {
	key := string(KeyForBalance(asset, to))
	sum, ok := lib.SafeAdd(s.credits[key], amount)
	if !ok {
		return ErrAmountOverflow()
	}
	s.credits[key] = sum
	return nil
}

// settle() writes every staged balance into txn and flushes it while holding the ledger lock,
// so no other movement lands between the final check and the write
func (s *stagedLedger) settle(txn lib.TxnI) lib.ErrorI {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	keys := make(map[string]struct{}, len(s.debits)+len(s.credits))
	for k := range s.debits {
		keys[k] = struct{}{}
	}
	for k := range s.credits {
		keys[k] = struct{}{}
	}
	for k := range keys {
		balance, err := getBalance(s.parent.store, []byte(k))
		if err != nil {
			return err
		}
		sum, ok := lib.SafeAdd(balance, s.credits[k])
		if !ok {
			return ErrLedgerTransferFailed(ErrAmountOverflow())
		}
		if sum < s.debits[k] {
			return ErrLedgerTransferFailed(ErrInsufficientFunds())
		}
		if err = setBalance(txn, []byte(k), sum-s.debits[k]); err != nil {
			return err
		}
	}
	return txn.Write()
}

func getBalance(store lib.RStoreI, key []byte) (uint64, lib.ErrorI) {
	bz, err := store.Get(key)
	if err != nil || bz == nil {
		return 0, err
	}
	var amount uint64
	if e := codec.Unmarshal(bz, map[codec.Number]any{1: &amount}); e != nil {
		return 0, lib.ErrUnmarshal(e)
	}
	return amount, nil
}

func setBalance(store lib.WStoreI, key []byte, amount uint64) lib.ErrorI {
	if amount == 0 {
		return store.Delete(key)
	}
	bz, err := codec.Marshal(codec.Field{Num: 1, Value: amount})
	if err != nil {
		return lib.ErrMarshal(err)
	}
	return store.Set(key, bz)
}

// transfer is one applied ledger movement
type transfer struct {
	asset   AssetId
	address string
	amount  uint64
	credit  bool
}

// journal applies transfers through a ledger and remembers them so a failed operation can be reversed
type journal struct {
	ledger  LedgerAdapter
	applied []transfer
	log     lib.LoggerI
}

func newJournal(ledger LedgerAdapter, log lib.LoggerI) *journal {
	return &journal{ledger: ledger, log: log}
}

// transfer() debits from and credits to; any ledger error becomes ErrLedgerTransferFailed
func (j *journal) transfer(asset AssetId, from, to string, amount uint64) lib.ErrorI {
	if amount == 0 {
		return nil
	}
	if err := j.ledger.Debit(asset, from, amount); err != nil {
		return ErrLedgerTransferFailed(err)
	}
	j.applied = append(j.applied, transfer{asset: asset, address: from, amount: amount})
	if err := j.ledger.Credit(asset, to, amount); err != nil {
		return ErrLedgerTransferFailed(err)
	}
	j.applied = append(j.applied, transfer{asset: asset, address: to, amount: amount, credit: true})
	return nil
}

// revert() applies the inverse of every recorded transfer, newest first
func (j *journal) revert() {
	for i := len(j.applied) - 1; i >= 0; i-- {
		t := j.applied[i]
		var err lib.ErrorI
		if t.credit {
			err = j.ledger.Debit(t.asset, t.address, t.amount)
		} else {
			err = j.ledger.Credit(t.asset, t.address, t.amount)
		}
		if err != nil {
			j.log.Errorf("Reverting %d %s for %s failed:%s", t.amount, t.asset, t.address, err.Error())
		}
	}
	j.applied = nil
}

// Minter is implemented by ledgers that can create tokens
type Minter interface {
	Mint(asset AssetId, to string, amount uint64) lib.ErrorI
}

// Mint() funds a wallet through the ledger when it supports minting
func (s *StateMachine) Mint(asset AssetId, to string, amount uint64) lib.ErrorI {
	m, ok := s.ledger.(Minter)
	if !ok {
		return ErrLedgerUnsupported("minting")
	}
	return m.Mint(asset, to, amount)
}
