package fsm

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/baarbz/DecentralizedExchange/lib"
)

// StateMachine is the pool state engine: it owns every pool record, moves tokens through the ledger
// and applies each economic operation as one all-or-nothing transition per pool
type StateMachine struct {
	store    lib.StoreI
	ledger   LedgerAdapter
	accounts *AccountLedger // the built-in ledger over the same store; its balances commit with the pools

	locksMu sync.Mutex
	locks   map[PoolKey]*sync.RWMutex // one writer per pool, concurrent readers

	eventMu   sync.Mutex
	lastEvent uint64 // sequence of the latest committed event

	Config  lib.Config
	metrics *lib.Metrics
	log     lib.LoggerI
}

// New() creates a new instance of a StateMachine; a nil ledger defaults to the store backed AccountLedger
func New(c lib.Config, store lib.StoreI, ledger LedgerAdapter, metrics *lib.Metrics, log lib.LoggerI) (*StateMachine, lib.ErrorI) {
	if err := c.DexConfig.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = NewAccountLedger(store, log)
	}
	sm := &StateMachine{
		store:   store,
		ledger:  ledger,
		locks:   make(map[PoolKey]*sync.RWMutex),
		Config:  c,
		metrics: metrics,
		log:     log,
	}
	if al, ok := ledger.(*AccountLedger); ok && al.store == lib.RWStoreI(store) {
		sm.accounts = al
	}
	return sm, sm.Initialize()
}

// Initialize() restores the event sequence and the pool gauges from the store
func (s *StateMachine) Initialize() lib.ErrorI {
	it, err := s.store.RevIterator(EventPrefix())
	if err != nil {
		return err
	}
	if it.Valid() {
		e, er := unmarshalEvent(it.Value())
		if er != nil {
			it.Close()
			return er
		}
		s.lastEvent = e.Sequence
	}
	it.Close()
	pools, err := s.GetPools()
	if err != nil {
		return err
	}
	for _, p := range pools {
		s.observePool(p)
	}
	s.log.Infof("Loaded %d pools, last event sequence %d", len(pools), s.lastEvent)
	return nil
}

// Ledger() returns the ledger the engine moves tokens through
func (s *StateMachine) Ledger() LedgerAdapter { return s.ledger }

// operation is the scratch space of a single transition: buffered pool writes,
// the ledger transfers already applied and the events to log on commit
type operation struct {
	txn     lib.TxnI
	journal *journal
	staged  *stagedLedger // nil unless the built-in ledger is in use
	events  []*Event
	pool    *Pool // the last pool written
}

// execute() runs apply under the pool's write lock; on any failure the buffered writes are
// discarded and the applied transfers reversed, otherwise everything is committed at once
func (s *StateMachine) execute(name string, key PoolKey, apply func(op *operation) lib.ErrorI) (err lib.ErrorI) {
	lock := s.poolLock(key)
	lock.Lock()
	defer lock.Unlock()
	start := time.Now()
	op := &operation{txn: s.store.NewTxn()}
	if s.accounts != nil {
		op.staged = s.accounts.stage()
		op.journal = newJournal(op.staged, s.log)
	} else {
		op.journal = newJournal(s.ledger, s.log)
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s on pool %s panicked: %v\n%s", name, key, r, debug.Stack())
			err = lib.ErrPanic()
		}
		if err != nil {
			op.journal.revert()
			op.txn.Discard()
			s.log.Debugf("%s on pool %s rejected:%s", name, key, err.Error())
		}
		s.metrics.ObserveOperation(name, err, time.Since(start))
	}()
	if err = apply(op); err != nil {
		return
	}
	if err = s.commit(op); err != nil {
		return
	}
	if op.pool != nil {
		s.observePool(op.pool)
	}
	s.log.Debugf("%s on pool %s applied", name, key)
	return
}

// commit() assigns event sequences and flushes the operation, staged balances included, in a single store batch
func (s *StateMachine) commit(op *operation) lib.ErrorI {
	s.eventMu.Lock()
	defer s.eventMu.Unlock()
	seq := s.lastEvent
	for _, e := range op.events {
		seq++
		e.Sequence = seq
		bz, err := marshalEvent(e)
		if err != nil {
			return err
		}
		if err = op.txn.Set(KeyForEvent(seq), bz); err != nil {
			return err
		}
	}
	write := op.txn.Write
	if op.staged != nil {
		write = func() lib.ErrorI { return op.staged.settle(op.txn) }
	}
	if err := write(); err != nil {
		return err
	}
	s.lastEvent = seq
	return nil
}

// poolLock() returns the lock guarding a pool, creating it on first use
func (s *StateMachine) poolLock(key PoolKey) *sync.RWMutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = new(sync.RWMutex)
		s.locks[key] = l
	}
	return l
}

func (s *StateMachine) observePool(p *Pool) {
	s.metrics.UpdatePool(p.Key.String(), string(p.Key.Low), string(p.Key.High), p.ReserveLow, p.ReserveHigh, p.TotalLiquidity)
}

func (o *operation) getPool(key PoolKey) (*Pool, lib.ErrorI) { return getPool(o.txn, key) }

// getLivePool() loads a pool that exists and still holds liquidity
func (o *operation) getLivePool(key PoolKey) (*Pool, lib.ErrorI) {
	pool, err := o.getPool(key)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, ErrPoolNotFound(key)
	}
	if pool.Inert() {
		return nil, ErrInsufficientLiquidity()
	}
	return pool, nil
}

func (o *operation) setPool(p *Pool) lib.ErrorI {
	bz, err := marshalPool(p)
	if err != nil {
		return err
	}
	o.pool = p
	return o.txn.Set(KeyForPool(p.Key), bz)
}

// deposit() moves tokens from a user into the pool's custody
func (o *operation) deposit(asset AssetId, from string, key PoolKey, amount uint64) lib.ErrorI {
	return o.journal.transfer(asset, from, key.Address(), amount)
}

// withdraw() moves tokens from the pool's custody to a user
func (o *operation) withdraw(asset AssetId, key PoolKey, to string, amount uint64) lib.ErrorI {
	return o.journal.transfer(asset, key.Address(), to, amount)
}

func (o *operation) emit(e *Event) { o.events = append(o.events, e) }
