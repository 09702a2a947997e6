package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
)

// DefaultSearchDebounce is how long search input must settle before a query runs.
const DefaultSearchDebounce = 500 * time.Millisecond

// Fetcher runs a composed query against storage.
type Fetcher interface {
	Browse(q Query) ([]model.Product, error)
}

// Snapshot is what a session publishes after a successful refresh.
type Snapshot struct {
	Seq      uint64          `json:"seq"`
	Filters  Filters         `json:"filters"`
	Products []model.Product `json:"products"`
}

// Publisher receives snapshots. It is called with the session lock held so
// snapshots arrive in refresh order; it must not block or call back into the session.
type Publisher func(Snapshot)

// FailureHandler receives the error of the latest refresh when it fails.
// The same locking rules as Publisher apply.
type FailureHandler func(seq uint64, err error)

type EventType string

const (
	EventSetMainCategory EventType = "set_main_category"
	EventSetCategory     EventType = "set_category"
	EventToggleInventory EventType = "toggle_inventory"
	EventTogglePrice     EventType = "toggle_price"
	EventSearch          EventType = "search"
	EventRefresh         EventType = "refresh"
)

// Event is one filter interaction sent by a visitor.
type Event struct {
	Type  EventType `json:"type"`
	Value string    `json:"value"`
}

// Session holds one visitor's filters and last good result set.
//
// Every refresh takes a sequence number when it is dispatched. Only the
// refresh holding the latest number may publish, so a slow response can
// never overwrite a newer one. Failed refreshes are logged and leave the
// previous products in place.
type Session struct {
	mu         sync.Mutex
	fetcher    Fetcher
	publish    Publisher
	onError    FailureHandler
	thresholds Thresholds
	debounce   time.Duration

	filters  Filters
	seq      uint64
	products []model.Product
	pending  *time.Timer
	closed   bool
}

func NewSession(fetcher Fetcher, thresholds Thresholds, debounce time.Duration, publish Publisher) *Session {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	return &Session{
		fetcher:    fetcher,
		publish:    publish,
		thresholds: thresholds,
		debounce:   debounce,
	}
}

// OnError registers fn to be told about failed refreshes. The previous
// snapshot stays published either way.
func (s *Session) OnError(fn FailureHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Apply updates the filters. Search events are debounced; every other event
// refreshes before returning.
func (s *Session) Apply(ev Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	if ev.Type == EventSearch {
		s.filters.SetSearch(ev.Value)
		s.stopPendingLocked()
		s.pending = time.AfterFunc(s.debounce, s.Refresh)
		s.mu.Unlock()
		return nil
	}

	if err := s.mutateLocked(ev); err != nil {
		s.mu.Unlock()
		return err
	}
	s.stopPendingLocked()
	s.mu.Unlock()

	s.Refresh()
	return nil
}

func (s *Session) mutateLocked(ev Event) error {
	switch ev.Type {
	case EventSetMainCategory:
		main, err := ParseMainCategory(ev.Value)
		if err != nil {
			return err
		}
		s.filters.SetMainCategory(main)
	case EventSetCategory:
		s.filters.SetCategory(ParseCategory(ev.Value))
	case EventToggleInventory:
		flags, err := ParseInventoryFlags(ev.Value)
		if err != nil {
			return err
		}
		for _, flag := range flags {
			s.filters.ToggleInventory(flag)
		}
	case EventTogglePrice:
		ranges, err := ParsePriceRanges(ev.Value)
		if err != nil {
			return err
		}
		for _, r := range ranges {
			s.filters.TogglePrice(r)
		}
	case EventRefresh:
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func (s *Session) stopPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Refresh runs the current query and publishes the result if no newer
// refresh was dispatched in the meantime.
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	filters := s.filters
	query := filters.Query(s.thresholds)
	s.mu.Unlock()

	products, err := s.fetcher.Browse(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.seq {
		logger.Debug("Dropping superseded catalog refresh", map[string]interface{}{
			"seq":    seq,
			"latest": s.seq,
		})
		return
	}
	if err != nil {
		logger.Error("Catalog refresh failed, keeping previous results", err, map[string]interface{}{
			"seq":           seq,
			"main_category": filters.MainCategory,
			"category":      filters.Category,
		})
		if s.onError != nil {
			s.onError(seq, err)
		}
		return
	}

	s.products = products
	s.publish(Snapshot{Seq: seq, Filters: filters, Products: products})
}

// Filters returns a copy of the current selections.
func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Inventory = append([]InventoryFlag(nil), s.filters.Inventory...)
	f.Prices = append([]PriceRange(nil), s.filters.Prices...)
	return f
}

// Products returns the last successfully fetched products.
func (s *Session) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

// Close cancels any pending search and stops publishing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopPendingLocked()
}
