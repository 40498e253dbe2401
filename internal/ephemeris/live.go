package ephemeris

import (
	"sync"

	"github.com/papapumpkin/siderea/internal/chart"
)

// LiveProvider serves positions through whichever strategy the data file
// currently supports, re-selecting when the watcher reports the file
// appearing, being replaced, or vanishing. Long-running embedders promote
// from approximate to precise data (or drop back) without a restart.
type LiveProvider struct {
	dbPath    string
	cacheSize int
	watcher   *Watcher

	mu    sync.RWMutex
	inner Provider
	fell  bool
}

// NewLiveProvider selects the best available strategy for dbPath and begins
// watching the path. The parent directory must exist; the data file itself
// may not yet. The caller owns Close.
func NewLiveProvider(dbPath string, cacheSize int) (*LiveProvider, error) {
	inner, fell, err := Select(dbPath, cacheSize)
	if err != nil {
		return nil, err
	}
	w, err := NewWatcher(dbPath)
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	lp := &LiveProvider{dbPath: dbPath, cacheSize: cacheSize, watcher: w, inner: inner, fell: fell}
	if err := w.Start(); err != nil {
		_ = inner.Close()
		return nil, err
	}
	go lp.loop()
	return lp, nil
}

func (lp *LiveProvider) loop() {
	for range lp.watcher.Events {
		inner, fell, err := Select(lp.dbPath, lp.cacheSize)
		if err != nil {
			continue // keep the current strategy
		}
		lp.mu.Lock()
		old := lp.inner
		lp.inner, lp.fell = inner, fell
		lp.mu.Unlock()
		_ = old.Close()
	}
}

func (lp *LiveProvider) current() Provider {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	return lp.inner
}

func (lp *LiveProvider) Positions(in chart.Instant, frame Frame) (PositionSet, error) {
	return lp.current().Positions(in, frame)
}

func (lp *LiveProvider) Accuracy() Accuracy {
	return lp.current().Accuracy()
}

// Fallback reports whether the current strategy is the approximate fallback.
func (lp *LiveProvider) Fallback() bool {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	return lp.fell
}

// Close stops the watcher and releases the current strategy.
func (lp *LiveProvider) Close() error {
	lp.watcher.Stop()
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.inner.Close()
}
