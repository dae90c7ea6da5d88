package encoder

// Publisher is the narrow interface a codec strategy uses to hand
// Results back to the session goroutine. Separating it from *Encoder
// keeps strategy/gfx packages decoupled from encoder lifecycle concerns
// (construction, teardown, codec selection).
type Publisher interface {
	// Publish enqueues a Result and immediately signals result-available.
	// Used by strategies that signal once per Result (JPEG, the GFX
	// interpreter's per-command fragments).
	Publish(r Result)
	// PublishSilent enqueues a Result without signalling. Used by
	// strategies that batch several Results and signal once at the end
	// (RemoteFX's multi-pass fragmentation).
	PublishSilent(r Result)
	// Signal raises result-available without enqueuing anything.
	Signal()
}

// StrategyFunc processes one Job to completion, publishing zero or more
// Results via pub. It must guarantee that at least one Result with
// Last=true is eventually published for every Job it is given (§5 inv. 3).
type StrategyFunc func(pub Publisher, job Job) error

// Publish implements Publisher.
func (e *Encoder) Publish(r Result) {
	e.pushResult(r)
	e.resultAvailable.Set()
}

// PublishSilent implements Publisher.
func (e *Encoder) PublishSilent(r Result) {
	e.pushResult(r)
}

// Signal implements Publisher.
func (e *Encoder) Signal() {
	e.resultAvailable.Set()
}

func (e *Encoder) pushResult(r Result) {
	e.mu.Lock()
	e.resultsOut.push(r)
	e.mu.Unlock()
}
