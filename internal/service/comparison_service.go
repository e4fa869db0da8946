package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/aggregate"
	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

// ComparisonService keeps a live budget-vs-actual view per account. The two
// input feeds update independently; every snapshot of either one triggers a
// full recomputation through the aggregation engine. There is no ordering
// guarantee between a budget write and a transaction write, and no
// cross-collection transaction: the view is whatever the two streams
// currently say.
type ComparisonService struct {
	backend store.Backend
	logger  *zap.Logger

	mu       sync.Mutex
	watchers map[string]*comparisonWatcher
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(backend store.Backend, logger *zap.Logger) *ComparisonService {
	return &ComparisonService{
		backend:  backend,
		logger:   logger,
		watchers: make(map[string]*comparisonWatcher),
	}
}

// Current returns the account's budget-vs-actual rows together with the last
// feed error, if any. Without an account it returns an empty view
// immediately. The first call for an account starts its watcher; subsequent
// calls read the live-maintained result.
func (s *ComparisonService) Current(accountID string) ([]aggregate.CategoryComparison, error) {
	if accountID == "" {
		return nil, nil
	}

	s.mu.Lock()
	w, ok := s.watchers[accountID]
	if !ok {
		w = newComparisonWatcher(s.backend, accountID)
		s.watchers[accountID] = w
	}
	s.mu.Unlock()

	return w.current()
}

// Close cancels every account watcher. Idempotent.
func (s *ComparisonService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range s.watchers {
		w.close()
		delete(s.watchers, id)
	}
}

// comparisonWatcher subscribes to one account's budget and transaction feeds
// and recomputes the comparison on every snapshot. Recomputation is a pure
// full pass; no incremental patching, so the cached rows can never drift
// from the inputs.
type comparisonWatcher struct {
	mu           sync.RWMutex
	budgets      []*entity.Budget
	transactions []*entity.Transaction
	rows         []aggregate.CategoryComparison
	feedErr      error

	budgetSub store.Subscription
	txnSub    store.Subscription
}

func newComparisonWatcher(backend store.Backend, accountID string) *comparisonWatcher {
	w := &comparisonWatcher{}

	budgetCol := store.NewCollection[entity.Budget](backend, budgetsPath(accountID))
	txnCol := store.NewCollection[entity.Transaction](backend, transactionsPath(accountID))

	w.budgetSub = budgetCol.Subscribe(func(recs []*entity.Budget, err error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.feedErr = err
		if err != nil {
			return
		}
		w.budgets = recs
		w.rows = aggregate.Compare(w.budgets, w.transactions)
	})

	w.txnSub = txnCol.Subscribe(func(recs []*entity.Transaction, err error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.feedErr = err
		if err != nil {
			return
		}
		w.transactions = recs
		w.rows = aggregate.Compare(w.budgets, w.transactions)
	})

	return w
}

func (w *comparisonWatcher) current() ([]aggregate.CategoryComparison, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]aggregate.CategoryComparison, len(w.rows))
	copy(out, w.rows)
	return out, w.feedErr
}

func (w *comparisonWatcher) close() {
	w.budgetSub.Cancel()
	w.txnSub.Cancel()
}
