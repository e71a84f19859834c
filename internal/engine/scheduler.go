package engine

import (
	"context"
	"time"

	"github.com/bep/debounce"
)

// operation tracks request scheduling for one analysis mode: the debounce
// window for edit bursts, the generation counter that orders issued requests,
// and the cancel handle for the single in-flight request.
//
// Fields are guarded by the Engine mutex.  The function returned by
// debounce.New is safe to call without it.
type operation struct {
	mode      string
	interval  time.Duration
	debounced func(func())
	gen       uint64
	cancel    context.CancelFunc
}

func newOperation(mode string, interval time.Duration) *operation {
	return &operation{
		mode:      mode,
		interval:  interval,
		debounced: debounce.New(interval),
	}
}

// setInterval swaps the debouncer for one with the new window.  A burst
// pending on the old debouncer still fires once.
func (o *operation) setInterval(d time.Duration) {
	if d <= 0 || d == o.interval {
		return
	}
	o.interval = d
	o.debounced = debounce.New(d)
}

// abort cancels the in-flight request, if any.  The bumped generation at the
// next issue makes the aborted request's settlement stale.
func (o *operation) abort() bool {
	if o.cancel == nil {
		return false
	}
	o.cancel()
	o.cancel = nil
	return true
}

// next registers a new in-flight request and returns its generation and the
// context its transport call must run under.
func (o *operation) next() (uint64, context.Context) {
	o.gen++
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	return o.gen, ctx
}

// current reports whether gen identifies the latest issued request.
func (o *operation) current(gen uint64) bool { return gen == o.gen }

// settle releases the cancel handle once the request identified by gen has
// produced its outcome.  Stale generations are ignored.
func (o *operation) settle(gen uint64) {
	if gen != o.gen || o.cancel == nil {
		return
	}
	o.cancel()
	o.cancel = nil
}
