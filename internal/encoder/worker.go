package encoder

import "github.com/rcarmo/go-rdp/internal/logging"

// workerLoop is the single goroutine that owns codec state for the
// lifetime of an Encoder. It wakes on job-available, drains the inbound
// FIFO under the mutex, and hands each Job to the selected strategy
// outside the lock so a slow codec pass never blocks Enqueue. It exits
// (publishing term-done) as soon as it observes term-request between
// drains; Jobs still queued then are left for Close to drain.
func (e *Encoder) workerLoop() {
	defer e.termDone.Set()

	for {
		select {
		case <-e.termRequest.C():
			return
		case <-e.jobAvailable.C():
			if e.termRequest.IsSet() {
				return
			}
			e.drainRemaining()

			// A term-request may have arrived while we were processing;
			// check again before the next blocking select so Close
			// doesn't wait a full cycle longer than necessary.
			if e.termRequest.IsSet() {
				return
			}
		}
	}
}

// drainRemaining pops and processes every Job currently queued. A Job
// whose strategy invocation fails is logged and dropped, and draining
// continues with the next Job.
func (e *Encoder) drainRemaining() {
	for {
		e.mu.Lock()
		job, ok := e.jobsIn.pop()
		e.mu.Unlock()
		if !ok {
			return
		}

		if err := e.run(e, job); err != nil {
			logging.Error("encoder: strategy failed: %v", err)
		}
	}
}
