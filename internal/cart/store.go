package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// DefaultNamespace is the storage key used when none is configured.
const DefaultNamespace = "cart-storage"

const (
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opUpdateQuantity = "update_quantity"
	opClearCart      = "clear_cart"
	opDeduct         = "deduct"
)

// Options wires a Store to its collaborators. Only Namespace is required to
// be meaningful; a nil Persister keeps the cart in memory.
type Options struct {
	Namespace       string
	Persister       Persister
	Logger          *logger.Logger
	Metrics         *metrics.CartMetrics
	DefaultCurrency enums.Currency
}

// Store is the authoritative cart for one namespace. Every mutation holds the
// lock across read, modify and save so concurrent callers never lose updates.
type Store struct {
	mu              sync.Mutex
	namespace       string
	lines           []Line
	persister       Persister
	logg            *logger.Logger
	metrics         *metrics.CartMetrics
	defaultCurrency enums.Currency
	degraded        bool
}

// NewStore returns an empty store without touching persistence.
func NewStore(opts Options) *Store {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	currency := opts.DefaultCurrency
	if currency == "" {
		currency = enums.DefaultCurrency
	}
	return &Store{
		namespace:       namespace,
		persister:       opts.Persister,
		logg:            logg,
		metrics:         opts.Metrics,
		defaultCurrency: currency,
	}
}

// Open returns a store restored from its last snapshot.
func Open(ctx context.Context, opts Options) *Store {
	s := NewStore(opts)
	s.Restore(ctx)
	return s
}

// Namespace returns the storage key of the store.
func (s *Store) Namespace() string {
	return s.namespace
}

// Degraded reports whether persistence has been abandoned for this store.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Restore replaces the lines with the persisted snapshot. A missing snapshot
// yields an empty cart. A snapshot that cannot be decoded is discarded. A
// store that already degraded keeps its in-memory lines.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil || s.degraded {
		return
	}
	ctx = s.logg.WithField(ctx, "cart_namespace", s.namespace)

	payload, err := s.persister.Load(ctx, s.namespace)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		s.lines = nil
		s.metrics.RecordRestore(metrics.RestoreEmpty)
		return
	case err != nil:
		s.metrics.RecordRestore(metrics.RestoreError)
		s.degrade(ctx, err)
		return
	}

	lines, err := DecodeSnapshot(payload)
	if err != nil {
		s.lines = nil
		s.metrics.RecordRestore(metrics.RestoreError)
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.restore.discarded")
		return
	}
	s.lines = lines
	s.metrics.RecordRestore(metrics.RestoreHit)
	s.logg.Debug(s.logg.WithField(ctx, "lines", len(lines)), "cart.restore.loaded")
}

// AddItem increments the matching line or appends a new line with quantity 1.
func (s *Store) AddItem(ctx context.Context, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(entry.ProductID, entry.VariantID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, lineFromEntry(entry))
	}
	s.commit(ctx, opAddItem)
}

// RemoveItem deletes the exact identity match. Absent identities are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(productID, variantID)
	s.commit(ctx, opRemoveItem)
}

// UpdateQuantity overwrites the quantity of the matching line. A quantity of
// zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID, variantID)
	} else if i := s.indexOf(productID, variantID); i >= 0 {
		s.lines[i].Quantity = quantity
	}
	s.commit(ctx, opUpdateQuantity)
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.commit(ctx, opClearCart)
}

// Deduct removes the quantities of lines from the cart, typically the lines
// of a placed order. Units added after lines were read stay in the cart.
// Lines that reach zero are dropped.
func (s *Store) Deduct(ctx context.Context, lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ordered := range lines {
		i := s.indexOf(ordered.ProductID, ordered.VariantID)
		if i < 0 {
			continue
		}
		if s.lines[i].Quantity <= ordered.Quantity {
			s.removeLocked(ordered.ProductID, ordered.VariantID)
			continue
		}
		s.lines[i].Quantity -= ordered.Quantity
	}
	s.commit(ctx, opDeduct)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Total is the sum of price times quantity over every line, regardless of currency.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.lines)
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.lines)
}

// TotalsByCurrency groups the subtotal per line currency.
func (s *Store) TotalsByCurrency() map[enums.Currency]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalsByCurrency(s.lines)
}

// Currency is the display currency: the first line's, else the default.
func (s *Store) Currency() enums.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencyLocked()
}

// Summary is a consistent read of every derived value.
type Summary struct {
	Lines     []Line
	Subtotal  decimal.Decimal
	ItemCount int
	Currency  enums.Currency
	Totals    map[enums.Currency]decimal.Decimal
}

// MixedCurrency reports whether the lines span more than one currency.
func (s Summary) MixedCurrency() bool {
	return len(s.Totals) > 1
}

// Summary returns lines and derived values computed under a single lock.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Lines:     cloneLines(s.lines),
		Subtotal:  total(s.lines),
		ItemCount: itemCount(s.lines),
		Currency:  s.currencyLocked(),
		Totals:    totalsByCurrency(s.lines),
	}
}

func (s *Store) currencyLocked() enums.Currency {
	if len(s.lines) > 0 && s.lines[0].Currency != "" {
		return s.lines[0].Currency
	}
	return s.defaultCurrency
}

func (s *Store) indexOf(productID, variantID string) int {
	for i, line := range s.lines {
		if line.Matches(productID, variantID) {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID, variantID string) {
	if i := s.indexOf(productID, variantID); i >= 0 {
		s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	}
}

// commit records the mutation and saves the full snapshot. Must hold mu.
func (s *Store) commit(ctx context.Context, op string) {
	s.metrics.IncMutation(op)
	if s.persister == nil || s.degraded {
		return
	}
	ctx = s.logg.WithField(ctx, "cart_namespace", s.namespace)

	payload, err := EncodeSnapshot(s.lines)
	if err != nil {
		s.degrade(ctx, err)
		return
	}

	started := time.Now()
	err = s.persister.Save(ctx, s.namespace, payload)
	s.metrics.ObservePersist(s.persister.Name(), time.Since(started))
	if err != nil {
		s.metrics.IncPersistFailure(s.persister.Name())
		s.degrade(ctx, err)
	}
}

// degrade switches the store to memory-only operation for the rest of its life.
func (s *Store) degrade(ctx context.Context, err error) {
	s.degraded = true
	s.metrics.IncDegraded()
	fields := map[string]any{"error": err.Error()}
	if s.persister != nil {
		fields["backend"] = s.persister.Name()
	}
	s.logg.Warn(s.logg.WithFields(ctx, fields), "cart.persistence.degraded")
}

func total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

func itemCount(lines []Line) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

func totalsByCurrency(lines []Line) map[enums.Currency]decimal.Decimal {
	totals := map[enums.Currency]decimal.Decimal{}
	for _, line := range lines {
		totals[line.Currency] = totals[line.Currency].Add(line.LineTotal())
	}
	return totals
}
