package controller

import (
	"context"
	"sync"
)

// State is a slot's lifecycle position.
type State uint8

const (
	StateDone State = iota
	StateRequested
	StateProcessing
)

// slot is the per-pin shared record: a short critical section plus two
// independent notifications (request-arrived, completion-observed),
// adapted from a fire-and-forget request/result channel pairing into a
// wait-for-completion handshake since handles here must block for a
// result. No I²C call is ever made while s.mu is held.
type slot struct {
	mu    sync.Mutex
	op    Op
	state State
	resp  Response

	doneCh   chan struct{} // closed+replaced on every installing publish and on (op, Processing) -> (op, Done)
	updateCh chan struct{} // closed+replaced whenever resp changes while Done (Watch re-signals)

	wake chan<- struct{} // runner's shared wake channel; publish nudges it
}

func newSlot(wake chan<- struct{}) *slot {
	return &slot{
		op:       defaultOp,
		state:    StateDone,
		doneCh:   make(chan struct{}),
		updateCh: make(chan struct{}),
		wake:     wake,
	}
}

// publish installs newOp as (Requested) unless it equals the current op
// and the slot is already Done — an idempotent re-publish of an
// already-satisfied op returns immediately without disturbing the runner.
func (s *slot) publish(newOp Op) {
	s.mu.Lock()
	if newOp == s.op && s.state == StateDone {
		s.mu.Unlock()
		return
	}
	s.op = newOp
	s.state = StateRequested
	s.resp = Response{}
	close(s.doneCh)
	s.doneCh = make(chan struct{})
	s.mu.Unlock()
	nudge(s.wake)
}

// peek returns a snapshot of the slot without blocking.
func (s *slot) peek() (Op, State, Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.op, s.state, s.resp
}

// awaitDone blocks until the slot reaches (want, Done), or ctx is canceled.
// It is cancel-safe: dropping the wait leaves the slot untouched, so the
// runner still applies the pending op.
func (s *slot) awaitDone(ctx context.Context, want Op) (Response, bool) {
	for {
		s.mu.Lock()
		if s.op == want && s.state == StateDone {
			resp := s.resp
			s.mu.Unlock()
			return resp, true
		}
		ch := s.doneCh
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return Response{}, false
		}
	}
}

// awaitUpdate blocks until resp changes while the slot is Done for sinceOp
// (Watch's re-signal path), or ctx is canceled. ok is false if the op was
// superseded in the meantime.
func (s *slot) awaitUpdate(ctx context.Context, sinceOp Op) (resp Response, ok bool) {
	s.mu.Lock()
	ch := s.updateCh
	s.mu.Unlock()
	select {
	case <-ch:
	case <-ctx.Done():
		return Response{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resp, s.op == sinceOp
}

// --- runner-side transitions ---

// acceptIfRequested transitions Requested -> Processing and returns the
// accepted op, used by the runner's snapshot phase.
func (s *slot) acceptIfRequested() (Op, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRequested {
		return Op{}, false
	}
	s.state = StateProcessing
	return s.op, true
}

// complete transitions Processing -> Done for forOp, setting resp and
// waking anyone in awaitDone. No-op if the op has since been superseded.
func (s *slot) complete(forOp Op, resp Response) {
	s.mu.Lock()
	if s.op != forOp || s.state != StateProcessing {
		s.mu.Unlock()
		return
	}
	s.state = StateDone
	s.resp = resp
	close(s.doneCh)
	s.doneCh = make(chan struct{})
	s.mu.Unlock()
}

// updateResponse overwrites resp for forOp while it remains Done, signaling
// any Watch waiters without touching state: every interrupt that changes
// last_known re-signals the response but leaves the op in place.
func (s *slot) updateResponse(forOp Op, resp Response) {
	s.mu.Lock()
	if s.op != forOp || s.state != StateDone {
		s.mu.Unlock()
		return
	}
	s.resp = resp
	close(s.updateCh)
	s.updateCh = make(chan struct{})
	s.mu.Unlock()
}

func (s *slot) currentOp() Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.op
}

func nudge(wake chan<- struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}
