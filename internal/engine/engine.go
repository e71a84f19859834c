package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/internal/metrics"
	"github.com/arraylab/beamtune/pkg/client"
	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

// yAxisSpan is the dB window kept below the automatic Y maximum, matching
// the service's own ymin = ymax - 40 rendering law.
const yAxisSpan = 40.0

// EventKind classifies a state-change notification.
type EventKind string

const (
	// EventParams fires when a draft or its violations changed.
	EventParams EventKind = "params"
	// EventLoading fires when a request was issued.
	EventLoading EventKind = "loading"
	// EventResult fires when a request settled with data (or resolved
	// without either data or error, such as on teardown).
	EventResult EventKind = "result"
	// EventError fires when a request settled with a failure.
	EventError EventKind = "error"
	// EventTraces fires when the kept-trace list changed.
	EventTraces EventKind = "traces"
	// EventAxes fires when displayed axis bounds changed.
	EventAxes EventKind = "axes"
)

// Event is a state-change notification delivered to the view layer.  Events
// fire outside the engine lock; the receiver reads fresh state via Snapshot.
type Event struct {
	Mode string
	Kind EventKind
}

// Client is the analysis transport the engine drives.  *client.Client
// satisfies it; tests substitute fakes.
type Client interface {
	AnalyzeLinear(ctx context.Context, req types.LinearRequest) (*types.AnalysisResult, error)
	AnalyzePlanar(ctx context.Context, req types.PlanarRequest) (*types.AnalysisResult, error)
}

// Options configures a new Engine.
type Options struct {
	Client         Client
	Logger         logging.Logger
	Metrics        metrics.Recorder
	LinearDebounce time.Duration
	PlanarDebounce time.Duration
	LiveMode       bool
	ShowCurrent    bool
	StartMode      string
	OnEvent        func(Event)
}

// modeState bundles everything one analysis mode owns.
type modeState struct {
	op         *operation
	store      *ResultStore
	traces     *TraceManager
	axes       *AxisRange
	violations []Violation
	lastParams Labeler
}

func newModeState(mode string, interval time.Duration) *modeState {
	return &modeState{
		op:     newOperation(mode, interval),
		store:  NewResultStore(),
		traces: NewTraceManager(),
		axes:   NewAxisRange(),
	}
}

// Engine is the synchronization core between parameter edits and the
// analysis service.  All exported methods are safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	client      Client
	logger      logging.Logger
	metrics     metrics.Recorder
	params      *ParameterStore
	linear      *modeState
	planar      *modeState
	mode        string
	live        bool
	showCurrent bool
	onEvent     func(Event)
	closed      bool
}

// New constructs an Engine.  Options.Client is required; nil logger and
// metrics fall back to no-ops, non-positive debounce windows to 100ms and
// 300ms respectively.
func New(opts Options) (*Engine, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("engine: client is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNopRecorder()
	}
	if opts.LinearDebounce <= 0 {
		opts.LinearDebounce = 100 * time.Millisecond
	}
	if opts.PlanarDebounce <= 0 {
		opts.PlanarDebounce = 300 * time.Millisecond
	}
	mode := opts.StartMode
	if mode != types.ModeLinear && mode != types.ModePlanar {
		mode = types.ModeLinear
	}
	return &Engine{
		client:      opts.Client,
		logger:      opts.Logger.Named("engine"),
		metrics:     opts.Metrics,
		params:      NewParameterStore(),
		linear:      newModeState(types.ModeLinear, opts.LinearDebounce),
		planar:      newModeState(types.ModePlanar, opts.PlanarDebounce),
		mode:        mode,
		live:        opts.LiveMode,
		showCurrent: opts.ShowCurrent,
		onEvent:     opts.OnEvent,
	}, nil
}

func (e *Engine) state(mode string) *modeState {
	if mode == types.ModePlanar {
		return e.planar
	}
	return e.linear
}

func (e *Engine) emit(evs ...Event) {
	if e.onEvent == nil {
		return
	}
	for _, ev := range evs {
		e.onEvent(ev)
	}
}

// Mode returns the currently active analysis mode.
func (e *Engine) Mode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode switches the active mode.  Both modes' drafts, results, traces and
// axis settings persist across switches; if live mode is on and the newly
// active mode has never produced a result, a request is issued to seed it.
func (e *Engine) SetMode(mode string) {
	if mode != types.ModeLinear && mode != types.ModePlanar {
		return
	}
	e.mu.Lock()
	e.mode = mode
	seed := e.live && !e.closed && e.state(mode).store.Phase() == PhaseIdle
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventParams})
	if seed {
		e.execute(mode)
	}
}

// LinearDraft returns the current linear draft.
func (e *Engine) LinearDraft() LinearDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params.Linear()
}

// PlanarDraft returns the current planar draft.
func (e *Engine) PlanarDraft() PlanarDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params.Planar()
}

// UpdateLinear stores an edited linear draft, re-runs the gate, and, when
// the draft is valid and live mode is on, arms the debounce window.  Each
// call within the window restarts it, so a typing burst issues one request
// carrying the final values.
func (e *Engine) UpdateLinear(d LinearDraft) {
	e.mu.Lock()
	e.params.SetLinear(d)
	_, vs := ValidateLinear(d)
	e.linear.violations = vs
	arm := len(vs) == 0 && e.live && !e.closed
	deb := e.linear.op.debounced
	e.mu.Unlock()

	e.emit(Event{Mode: types.ModeLinear, Kind: EventParams})
	if arm {
		deb(func() { e.fire(types.ModeLinear) })
	}
}

// UpdatePlanar is the planar counterpart of UpdateLinear.
func (e *Engine) UpdatePlanar(d PlanarDraft) {
	e.mu.Lock()
	e.params.SetPlanar(d)
	_, vs := ValidatePlanar(d)
	e.planar.violations = vs
	arm := len(vs) == 0 && e.live && !e.closed
	deb := e.planar.op.debounced
	e.mu.Unlock()

	e.emit(Event{Mode: types.ModePlanar, Kind: EventParams})
	if arm {
		deb(func() { e.fire(types.ModePlanar) })
	}
}

// fire runs when a debounce window reaches quiescence.
func (e *Engine) fire(mode string) {
	e.metrics.DebounceFired(mode)
	e.execute(mode)
}

// Submit issues a request for the given mode immediately, bypassing the
// debounce window.  This is the manual trigger used when live mode is off.
func (e *Engine) Submit(mode string) {
	e.execute(mode)
}

// execute validates the current draft and, if it passes the gate and is not
// withheld, aborts any in-flight request for the mode and issues a new one.
func (e *Engine) execute(mode string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	st := e.state(mode)

	var call func(ctx context.Context) (*types.AnalysisResult, error)
	var params Labeler
	switch mode {
	case types.ModePlanar:
		p, vs := ValidatePlanar(e.params.Planar())
		st.violations = vs
		if len(vs) > 0 {
			e.mu.Unlock()
			e.emit(Event{Mode: mode, Kind: EventParams})
			return
		}
		if p.Incomplete() {
			e.mu.Unlock()
			e.metrics.RequestWithheld(mode)
			e.logger.Debug("request withheld on incomplete ring lists",
				logging.Int("counts", len(p.RingCounts)),
				logging.Int("radii", len(p.RingRadii)))
			return
		}
		req := p.Request()
		params = p
		call = func(ctx context.Context) (*types.AnalysisResult, error) {
			return e.client.AnalyzePlanar(ctx, req)
		}
	default:
		p, vs := ValidateLinear(e.params.Linear())
		st.violations = vs
		if len(vs) > 0 {
			e.mu.Unlock()
			e.emit(Event{Mode: mode, Kind: EventParams})
			return
		}
		req := p.Request()
		params = p
		call = func(ctx context.Context) (*types.AnalysisResult, error) {
			return e.client.AnalyzeLinear(ctx, req)
		}
	}

	if st.op.abort() {
		e.metrics.RequestCancelled(mode)
	}
	gen, ctx := st.op.next()
	st.store.StartLoading()
	e.mu.Unlock()

	e.metrics.RequestIssued(mode)
	e.emit(Event{Mode: mode, Kind: EventLoading})
	go e.run(mode, st, gen, ctx, params, call)
}

// run performs the transport call and settles it.  A settlement whose
// generation is no longer current is discarded without touching any state:
// a newer request owns the store now.
func (e *Engine) run(mode string, st *modeState, gen uint64, ctx context.Context, params Labeler, call func(context.Context) (*types.AnalysisResult, error)) {
	start := time.Now()
	res, err := call(ctx)

	// Classified before settle: settling releases the request's own cancel
	// handle, after which ctx reads as cancelled regardless of the outcome.
	cancelled := err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil)

	e.mu.Lock()
	if !st.op.current(gen) {
		e.mu.Unlock()
		e.logger.Debug("stale settlement discarded",
			logging.String("mode", mode), logging.Uint64("generation", gen))
		return
	}
	st.op.settle(gen)

	var ev Event
	var failed bool
	switch {
	case cancelled:
		// Cancelled while still current: teardown or live-mode shutdown.
		st.store.EndLoading()
		ev = Event{Mode: mode, Kind: EventResult}
	case err != nil:
		st.store.SetError(displayMessage(err))
		failed = true
		ev = Event{Mode: mode, Kind: EventError}
	default:
		st.store.SetResult(res)
		st.lastParams = params
		st.axes.ResetSteps()
		e.recomputeAxesLocked(st)
		ev = Event{Mode: mode, Kind: EventResult}
	}
	e.mu.Unlock()

	if failed {
		e.metrics.RequestFailed(mode)
		e.logger.Warn("analysis request failed",
			logging.String("mode", mode), logging.Err(err))
	} else if err == nil {
		e.metrics.RequestSucceeded(mode, time.Since(start))
	}
	e.emit(ev)
}

// displayMessage turns a transport failure into the banner text shown to the
// user.  Service-signalled errors already carry a human-readable message.
func displayMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprintf("analysis request failed: %v", err)
}

// recomputeAxesLocked re-derives automatic axis bounds for one mode from the
// visible traces plus, when enabled, the current result.  Locked axes and
// user-owned bounds are left alone.  Reports whether anything displayed
// changed.  Caller holds e.mu.
func (e *Engine) recomputeAxesLocked(st *modeState) bool {
	res := st.store.Result()
	ymax, ok := st.traces.VisibleYMax()
	if e.showCurrent && res != nil && res.HasPattern() {
		if !ok || res.YMax > ymax {
			ymax = res.YMax
			ok = true
		}
	}
	changed := false
	if ok && st.axes.AutoY(ymax-yAxisSpan, ymax) {
		changed = true
	}
	if res != nil && len(res.Theta) > 1 {
		if st.axes.AutoX(res.Theta[0], res.Theta[len(res.Theta)-1]) {
			changed = true
		}
	}
	return changed
}

// Keep pins the current result of the given mode as a comparison trace,
// labeled with the parameters that produced it.
func (e *Engine) Keep(mode string) error {
	e.mu.Lock()
	st := e.state(mode)
	if st.lastParams == nil {
		e.mu.Unlock()
		return apperrors.New(apperrors.ErrCodeNoResult, "no result to keep")
	}
	err := st.traces.Keep(st.store.Result(), st.lastParams)
	axesChanged := false
	if err == nil {
		axesChanged = e.recomputeAxesLocked(st)
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(Event{Mode: mode, Kind: EventTraces})
	if axesChanged {
		e.emit(Event{Mode: mode, Kind: EventAxes})
	}
	return nil
}

// ClearTraces drops all kept traces for the mode.
func (e *Engine) ClearTraces(mode string) {
	e.mu.Lock()
	st := e.state(mode)
	st.traces.Clear()
	axesChanged := e.recomputeAxesLocked(st)
	e.mu.Unlock()

	e.emit(Event{Mode: mode, Kind: EventTraces})
	if axesChanged {
		e.emit(Event{Mode: mode, Kind: EventAxes})
	}
}

// RemoveTrace deletes one kept trace.
func (e *Engine) RemoveTrace(mode string, i int) error {
	e.mu.Lock()
	st := e.state(mode)
	err := st.traces.Remove(i)
	axesChanged := false
	if err == nil {
		axesChanged = e.recomputeAxesLocked(st)
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(Event{Mode: mode, Kind: EventTraces})
	if axesChanged {
		e.emit(Event{Mode: mode, Kind: EventAxes})
	}
	return nil
}

// SetTraceVisible toggles whether one kept trace is drawn.  Hidden traces
// stop contributing to automatic axis bounds.
func (e *Engine) SetTraceVisible(mode string, i int, visible bool) error {
	e.mu.Lock()
	st := e.state(mode)
	err := st.traces.SetVisible(i, visible)
	axesChanged := false
	if err == nil {
		axesChanged = e.recomputeAxesLocked(st)
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(Event{Mode: mode, Kind: EventTraces})
	if axesChanged {
		e.emit(Event{Mode: mode, Kind: EventAxes})
	}
	return nil
}

// HighlightTrace marks one kept trace for emphasis; a negative index clears
// the highlight.
func (e *Engine) HighlightTrace(mode string, i int) error {
	e.mu.Lock()
	err := e.state(mode).traces.Highlight(i)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.emit(Event{Mode: mode, Kind: EventTraces})
	return nil
}

// SetUserYMax records a user-typed Y maximum for the mode.
func (e *Engine) SetUserYMax(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetUserYMax(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetUserYMin records a user-typed Y minimum for the mode.
func (e *Engine) SetUserYMin(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetUserYMin(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// ClearYBounds returns both Y bounds to automatic tracking; the next result
// or trace change repopulates them.
func (e *Engine) ClearYBounds(mode string) {
	e.mu.Lock()
	st := e.state(mode)
	st.axes.ClearY()
	e.recomputeAxesLocked(st)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// LockYAxis sets the Y-axis lock for the mode.
func (e *Engine) LockYAxis(mode string, locked bool) {
	e.mu.Lock()
	e.state(mode).axes.LockY(locked)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetYStep overrides the Y tick step until the next result resets it.
func (e *Engine) SetYStep(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetYStep(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetUserXMax records a user-typed X maximum for the mode.
func (e *Engine) SetUserXMax(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetUserXMax(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetUserXMin records a user-typed X minimum for the mode.
func (e *Engine) SetUserXMin(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetUserXMin(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// ClearXBounds returns both X bounds to automatic tracking.
func (e *Engine) ClearXBounds(mode string) {
	e.mu.Lock()
	st := e.state(mode)
	st.axes.ClearX()
	e.recomputeAxesLocked(st)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// LockXAxis sets the X-axis lock for the mode.
func (e *Engine) LockXAxis(mode string, locked bool) {
	e.mu.Lock()
	e.state(mode).axes.LockX(locked)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetXStep overrides the X tick step until the next result resets it.
func (e *Engine) SetXStep(mode string, v float64) {
	e.mu.Lock()
	e.state(mode).axes.SetXStep(v)
	e.mu.Unlock()
	e.emit(Event{Mode: mode, Kind: EventAxes})
}

// SetShowCurrent toggles whether the current (unkept) result contributes to
// automatic axis bounds.
func (e *Engine) SetShowCurrent(show bool) {
	e.mu.Lock()
	e.showCurrent = show
	linChanged := e.recomputeAxesLocked(e.linear)
	plaChanged := e.recomputeAxesLocked(e.planar)
	e.mu.Unlock()

	if linChanged {
		e.emit(Event{Mode: types.ModeLinear, Kind: EventAxes})
	}
	if plaChanged {
		e.emit(Event{Mode: types.ModePlanar, Kind: EventAxes})
	}
}

// SetLiveMode toggles live synchronization.  Turning it on issues a request
// for the active mode so the display catches up with edits made while off.
func (e *Engine) SetLiveMode(live bool) {
	e.mu.Lock()
	was := e.live
	e.live = live
	mode := e.mode
	e.mu.Unlock()

	if live && !was {
		e.execute(mode)
	}
}

// LiveMode reports whether live synchronization is on.
func (e *Engine) LiveMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// SetDebounce updates the per-mode debounce windows, typically from a config
// reload.  Bursts pending on the old windows still fire once.
func (e *Engine) SetDebounce(linear, planar time.Duration) {
	e.mu.Lock()
	e.linear.op.setInterval(linear)
	e.planar.op.setInterval(planar)
	e.mu.Unlock()
}

// Snapshot is a self-consistent copy of everything the view renders for one
// mode.
type Snapshot struct {
	Mode        string
	Phase       Phase
	Result      *types.AnalysisResult
	ErrMsg      string
	Violations  []Violation
	Traces      []Trace
	Highlighted int
	Axes        AxisRange
	Live        bool
	ShowCurrent bool
}

// Snapshot returns the current view state for the given mode.
func (e *Engine) Snapshot(mode string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state(mode)
	return Snapshot{
		Mode:        mode,
		Phase:       st.store.Phase(),
		Result:      st.store.Result(),
		ErrMsg:      st.store.Err(),
		Violations:  append([]Violation(nil), st.violations...),
		Traces:      st.traces.Traces(),
		Highlighted: st.traces.Highlighted(),
		Axes:        *st.axes,
		Live:        e.live,
		ShowCurrent: e.showCurrent,
	}
}

// Close aborts in-flight requests and stops issuing new ones.  Debounce
// timers already armed may still fire; they find the engine closed and
// return without effect.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.linear.op.abort()
	e.planar.op.abort()
	e.mu.Unlock()
	e.logger.Debug("engine closed")
}
