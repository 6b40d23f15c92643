package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution whose result every caller receives. The zero value is
// ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done  chan struct{}
	value any
	err   error
}

// Do runs fn unless a call for key is already in flight, in which case
// it waits for that call and returns its result. The bool reports
// whether the result was shared.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if r, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-r.done
		return r.value, r.err, true
	}

	r := &flightResult{done: make(chan struct{})}
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}
	g.inflight[key] = r
	g.mu.Unlock()

	r.value, r.err = fn()
	close(r.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return r.value, r.err, false
}
