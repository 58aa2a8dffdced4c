package filter

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"penguindash/internal/dataset"
	"penguindash/internal/infrastructure"
)

// DefaultMemoCapacity bounds a Memo created with a non-positive capacity
const DefaultMemoCapacity = 256

type memoEntry struct {
	key  string
	view View
}

// Memo caches Apply results per State.Key for one dataset. Least recently
// used entries are evicted once capacity is reached. Concurrent misses on
// the same key compute the view once.
type Memo struct {
	ds       *dataset.Dataset
	capacity int
	metrics  *infrastructure.DashboardMetrics

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List

	group singleflight.Group
}

// NewMemo creates a Memo over ds. metrics may be nil.
func NewMemo(ds *dataset.Dataset, capacity int, metrics *infrastructure.DashboardMetrics) *Memo {
	if capacity <= 0 {
		capacity = DefaultMemoCapacity
	}
	return &Memo{
		ds:       ds,
		capacity: capacity,
		metrics:  metrics,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// View returns Apply(ds, st), computing it only on a miss
func (m *Memo) View(ctx context.Context, st State) View {
	key := st.Key()

	if v, ok := m.lookup(key); ok {
		m.metrics.RecordMemo(ctx, true)
		return v
	}
	m.metrics.RecordMemo(ctx, false)

	res, _, _ := m.group.Do(key, func() (interface{}, error) {
		if v, ok := m.lookup(key); ok {
			return v, nil
		}
		start := time.Now()
		v := Apply(m.ds, st)
		m.metrics.RecordFilter(ctx, v.Len(), time.Since(start))
		m.store(key, v)
		return v, nil
	})
	return res.(View)
}

// Len returns the number of cached views
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memo) lookup(key string) (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return View{}, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*memoEntry).view, true
}

func (m *Memo) store(key string, v View) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		el.Value.(*memoEntry).view = v
		m.order.MoveToFront(el)
		return
	}

	m.entries[key] = m.order.PushFront(&memoEntry{key: key, view: v})
	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoEntry).key)
	}
}
