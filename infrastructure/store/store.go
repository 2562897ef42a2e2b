package store

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/viewmodel"
)

// Store holds the latest transformed copy of every collection for one
// dashboard session. Fetches never return errors: a failed fetch leaves the
// collection empty and is logged. Concurrent fetches of one collection are
// last write wins.
type Store struct {
	source Source
	logger *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	closed      bool
	inflight    map[Collection]int
	loaded      map[Collection]bool
	versions    map[Collection]uint64
	subscribers map[int]func(Collection)
	nextSubID   int
	auditFilter backend.AuditFilter

	farmers          []viewmodel.Farmer
	deliveries       []viewmodel.Delivery
	lots             []viewmodel.Lot
	processingLogs   []viewmodel.ProcessingLog
	seasons          []viewmodel.Season
	expenses         []viewmodel.Expense
	revenues         []viewmodel.Revenue
	assets           []viewmodel.Asset
	laborLogs        []viewmodel.LaborLog
	storageBags      []viewmodel.StorageBag
	qualityChecks    []viewmodel.ComplianceCheck
	complianceChecks []viewmodel.ComplianceCheck
	auditLogs        []viewmodel.AuditEntry
	users            []viewmodel.User
}

func New(source Source, logger *logrus.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		source:      source,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		inflight:    make(map[Collection]int),
		loaded:      make(map[Collection]bool),
		versions:    make(map[Collection]uint64),
		subscribers: make(map[int]func(Collection)),
	}
}

// fetch runs list, transforms the result and stores it through assign.
// assign is called with s.mu held.
func fetch[R any, V any](ctx context.Context, s *Store, c Collection, list func(context.Context) ([]R, error), transform func([]R) []V, assign func([]V)) {
	if !s.begin(c) {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	records, err := list(ctx)
	out := []V{}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"module":     "store",
			"collection": string(c),
			"err":        err.Error(),
		}).Warn("collection fetch failed")
	} else if records != nil {
		out = transform(records)
	}

	s.finish(c, func() { assign(out) })
}

func (s *Store) begin(c Collection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight[c]++
	return true
}

func (s *Store) finish(c Collection, apply func()) {
	s.mu.Lock()
	s.inflight[c]--
	if s.closed {
		s.mu.Unlock()
		return
	}
	apply()
	s.loaded[c] = true
	s.versions[c]++
	subs := s.subscriberList()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}

// touch records an in-memory patch of c and notifies subscribers.
func (s *Store) touch(c Collection) {
	s.versions[c]++
	subs := s.subscriberList()
	s.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}

func (s *Store) subscriberList() []func(Collection) {
	out := make([]func(Collection), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		out = append(out, fn)
	}
	return out
}

func (s *Store) FetchFarmers(ctx context.Context) {
	fetch(ctx, s, Farmers, s.source.ListFarmers, viewmodel.Farmers, func(v []viewmodel.Farmer) { s.farmers = v })
}

func (s *Store) FetchDeliveries(ctx context.Context) {
	fetch(ctx, s, Deliveries, s.source.ListDeliveries, viewmodel.Deliveries, func(v []viewmodel.Delivery) { s.deliveries = v })
}

func (s *Store) FetchLots(ctx context.Context) {
	fetch(ctx, s, Lots, s.source.ListLots, viewmodel.Lots, func(v []viewmodel.Lot) { s.lots = v })
}

func (s *Store) FetchProcessingLogs(ctx context.Context) {
	fetch(ctx, s, ProcessingLogs, s.source.ListProcessingLogs, viewmodel.ProcessingLogs, func(v []viewmodel.ProcessingLog) { s.processingLogs = v })
}

func (s *Store) FetchSeasons(ctx context.Context) {
	fetch(ctx, s, Seasons, s.source.ListSeasons, viewmodel.Seasons, func(v []viewmodel.Season) { s.seasons = v })
}

func (s *Store) FetchExpenses(ctx context.Context) {
	fetch(ctx, s, Expenses, s.source.ListExpenses, viewmodel.Expenses, func(v []viewmodel.Expense) { s.expenses = v })
}

func (s *Store) FetchRevenues(ctx context.Context) {
	fetch(ctx, s, Revenues, s.source.ListRevenues, viewmodel.Revenues, func(v []viewmodel.Revenue) { s.revenues = v })
}

func (s *Store) FetchAssets(ctx context.Context) {
	fetch(ctx, s, Assets, s.source.ListAssets, viewmodel.Assets, func(v []viewmodel.Asset) { s.assets = v })
}

func (s *Store) FetchLaborLogs(ctx context.Context) {
	fetch(ctx, s, LaborLogs, s.source.ListLaborLogs, viewmodel.LaborLogs, func(v []viewmodel.LaborLog) { s.laborLogs = v })
}

func (s *Store) FetchStorageBags(ctx context.Context) {
	fetch(ctx, s, StorageBags, s.source.ListStorageBags, viewmodel.StorageBags, func(v []viewmodel.StorageBag) { s.storageBags = v })
}

func (s *Store) FetchQualityChecks(ctx context.Context) {
	fetch(ctx, s, QualityChecks, s.allComplianceLogs, func(in []backend.ComplianceLog) []viewmodel.ComplianceCheck {
		return viewmodel.ComplianceChecksOfType(in, viewmodel.TypeCPQI)
	}, func(v []viewmodel.ComplianceCheck) { s.qualityChecks = v })
}

func (s *Store) FetchComplianceChecks(ctx context.Context) {
	fetch(ctx, s, ComplianceChecks, s.allComplianceLogs, func(in []backend.ComplianceLog) []viewmodel.ComplianceCheck {
		return viewmodel.ComplianceChecksOfType(in, viewmodel.TypeCPSI)
	}, func(v []viewmodel.ComplianceCheck) { s.complianceChecks = v })
}

func (s *Store) allComplianceLogs(ctx context.Context) ([]backend.ComplianceLog, error) {
	return s.source.ListComplianceLogs(ctx, nil)
}

// FetchAuditLogs replaces the audit collection with the filtered result. The
// filter is remembered for later refreshes.
func (s *Store) FetchAuditLogs(ctx context.Context, filter backend.AuditFilter) {
	s.mu.Lock()
	s.auditFilter = filter
	s.mu.Unlock()
	list := func(ctx context.Context) ([]backend.AuditLog, error) {
		return s.source.ListAuditLogs(ctx, filter)
	}
	fetch(ctx, s, AuditLogs, list, viewmodel.AuditEntries, func(v []viewmodel.AuditEntry) { s.auditLogs = v })
}

func (s *Store) FetchUsers(ctx context.Context) {
	fetch(ctx, s, Users, s.source.ListUsers, viewmodel.Users, func(v []viewmodel.User) { s.users = v })
}

// Fetch dispatches to the fetch of c.
func (s *Store) Fetch(ctx context.Context, c Collection) {
	switch c {
	case Farmers:
		s.FetchFarmers(ctx)
	case Deliveries:
		s.FetchDeliveries(ctx)
	case Lots:
		s.FetchLots(ctx)
	case ProcessingLogs:
		s.FetchProcessingLogs(ctx)
	case Seasons:
		s.FetchSeasons(ctx)
	case Expenses:
		s.FetchExpenses(ctx)
	case Revenues:
		s.FetchRevenues(ctx)
	case Assets:
		s.FetchAssets(ctx)
	case LaborLogs:
		s.FetchLaborLogs(ctx)
	case StorageBags:
		s.FetchStorageBags(ctx)
	case QualityChecks:
		s.FetchQualityChecks(ctx)
	case ComplianceChecks:
		s.FetchComplianceChecks(ctx)
	case AuditLogs:
		s.FetchAuditLogs(ctx, s.AuditFilter())
	case Users:
		s.FetchUsers(ctx)
	}
}

// Start launches the initial load in the background. Each collection
// becomes visible as soon as its own fetch completes.
func (s *Store) Start() {
	for _, c := range InitialLoad {
		s.wg.Add(1)
		go func(c Collection) {
			defer s.wg.Done()
			s.Fetch(s.ctx, c)
		}(c)
	}
}

// Wait blocks until every fetch launched by Start has returned.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Refresh refetches the given collections concurrently and returns when all
// of them have been applied.
func (s *Store) Refresh(ctx context.Context, collections ...Collection) {
	var wg sync.WaitGroup
	for _, c := range collections {
		wg.Add(1)
		go func(c Collection) {
			defer wg.Done()
			s.Fetch(ctx, c)
		}(c)
	}
	wg.Wait()
}

// Ensure refreshes only the collections that were never loaded and are not
// being fetched right now.
func (s *Store) Ensure(ctx context.Context, collections ...Collection) {
	s.mu.RLock()
	missing := make([]Collection, 0, len(collections))
	for _, c := range collections {
		if !s.loaded[c] && s.inflight[c] == 0 {
			missing = append(missing, c)
		}
	}
	s.mu.RUnlock()
	if len(missing) > 0 {
		s.Refresh(ctx, missing...)
	}
}

// Close cancels in-flight requests; results arriving afterwards are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subscribers = make(map[int]func(Collection))
	s.mu.Unlock()
	s.cancel()
}

func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Subscribe registers fn to be called with the collection name after every
// applied update. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Collection)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) Loading(c Collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight[c] > 0
}

func (s *Store) Loaded(c Collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[c]
}

func (s *Store) Version(c Collection) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[c]
}

func (s *Store) AuditFilter() backend.AuditFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auditFilter
}

// SetPaymentStatus patches one delivery ahead of the refetch.
func (s *Store) SetPaymentStatus(id int64, status string) bool {
	s.mu.Lock()
	for i := range s.deliveries {
		if s.deliveries[i].ID == id {
			s.deliveries[i].PaymentStatus = status
			s.touch(Deliveries)
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// MarkDispatched patches one bag ahead of the refetch so it leaves the
// FIFO queue immediately.
func (s *Store) MarkDispatched(id int64, at string) bool {
	s.mu.Lock()
	for i := range s.storageBags {
		if s.storageBags[i].ID == id {
			s.storageBags[i].Dispatched = true
			s.storageBags[i].DispatchedAt = at
			s.touch(StorageBags)
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) Farmers() []viewmodel.Farmer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.farmers)
}

func (s *Store) Deliveries() []viewmodel.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.deliveries)
}

func (s *Store) Lots() []viewmodel.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lots)
}

// EnrichedLots joins lots with deliveries and processing logs from one
// consistent read.
func (s *Store) EnrichedLots() []viewmodel.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.EnrichLots(s.lots, s.deliveries, s.processingLogs)
}

func (s *Store) ProcessingLogs() []viewmodel.ProcessingLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.processingLogs)
}

func (s *Store) Seasons() []viewmodel.Season {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.seasons)
}

func (s *Store) Expenses() []viewmodel.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenses)
}

func (s *Store) Revenues() []viewmodel.Revenue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.revenues)
}

func (s *Store) Assets() []viewmodel.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

func (s *Store) LaborLogs() []viewmodel.LaborLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.laborLogs)
}

func (s *Store) StorageBags() []viewmodel.StorageBag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.storageBags)
}

func (s *Store) QualityChecks() []viewmodel.ComplianceCheck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.qualityChecks)
}

func (s *Store) ComplianceChecks() []viewmodel.ComplianceCheck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.complianceChecks)
}

func (s *Store) AuditLogs() []viewmodel.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.auditLogs)
}

func (s *Store) Users() []viewmodel.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Financials snapshots the four financial collections under one lock.
func (s *Store) Financials() aggregate.FinancialInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.FinancialInput{
		Deliveries: slices.Clone(s.deliveries),
		Expenses:   slices.Clone(s.expenses),
		Revenues:   slices.Clone(s.revenues),
		Labor:      slices.Clone(s.laborLogs),
	}
}
