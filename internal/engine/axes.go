package engine

// BoundState tags how a display bound got its current value.  Making the
// three states explicit (instead of comparing the displayed number against a
// remembered sentinel) keeps a user-typed value sticky even when it happens
// to equal an earlier auto-set value.
type BoundState int

const (
	// BoundEmpty means no value has been set; the plot library autoscales.
	BoundEmpty BoundState = iota
	// BoundAuto means the engine set the value from result data.
	BoundAuto
	// BoundUser means the user typed the value; automatic updates must not
	// overwrite it.
	BoundUser
)

// Bound is one display bound with its provenance tag.
type Bound struct {
	state BoundState
	value float64
}

// State returns the provenance tag.
func (b Bound) State() BoundState { return b.state }

// Value returns the bound value; meaningful only when State is not empty.
func (b Bound) Value() float64 { return b.value }

// IsSet reports whether the bound carries a value.
func (b Bound) IsSet() bool { return b.state != BoundEmpty }

// autoSet applies an automatically derived value.  User-owned bounds are
// never overwritten; empty and auto-owned bounds track the new value.
func (b *Bound) autoSet(v float64) bool {
	if b.state == BoundUser {
		return false
	}
	changed := b.state == BoundEmpty || b.value != v
	b.state = BoundAuto
	b.value = v
	return changed
}

// userSet records a value the user typed.
func (b *Bound) userSet(v float64) {
	b.state = BoundUser
	b.value = v
}

// clear returns the bound to the empty state.
func (b *Bound) clear() { *b = Bound{} }

// AxisBound groups the min/max bounds, tick step, and lock flag for one axis.
type AxisBound struct {
	Min    Bound
	Max    Bound
	Step   float64
	Locked bool
}

// Default tick steps, restored whenever a new result arrives.
const (
	DefaultXStep = 15.0 // degrees
	DefaultYStep = 5.0  // dB
)

// AxisRange tracks display bounds for one analysis mode's cartesian plots.
// Each mode owns its own instance, so steering the planar view never
// disturbs linear axis settings.
//
// Not safe for concurrent use; the Engine guards it.
type AxisRange struct {
	X AxisBound
	Y AxisBound
}

// NewAxisRange returns a controller with empty bounds and default steps.
func NewAxisRange() *AxisRange {
	return &AxisRange{
		X: AxisBound{Step: DefaultXStep},
		Y: AxisBound{Step: DefaultYStep},
	}
}

// AutoY applies result-derived Y bounds.  It is a no-op when the Y axis is
// locked; otherwise each bound updates independently unless user-owned.
// Returns whether any displayed value changed.
func (a *AxisRange) AutoY(min, max float64) bool {
	if a.Y.Locked {
		return false
	}
	changed := a.Y.Max.autoSet(max)
	if a.Y.Min.autoSet(min) {
		changed = true
	}
	return changed
}

// AutoX applies result-derived X bounds under the same rules as AutoY.
func (a *AxisRange) AutoX(min, max float64) bool {
	if a.X.Locked {
		return false
	}
	changed := a.X.Max.autoSet(max)
	if a.X.Min.autoSet(min) {
		changed = true
	}
	return changed
}

// SetUserYMax records a user-typed Y maximum.
func (a *AxisRange) SetUserYMax(v float64) { a.Y.Max.userSet(v) }

// SetUserYMin records a user-typed Y minimum.
func (a *AxisRange) SetUserYMin(v float64) { a.Y.Min.userSet(v) }

// SetUserXMax records a user-typed X maximum.
func (a *AxisRange) SetUserXMax(v float64) { a.X.Max.userSet(v) }

// SetUserXMin records a user-typed X minimum.
func (a *AxisRange) SetUserXMin(v float64) { a.X.Min.userSet(v) }

// SetYStep overrides the Y tick step.
func (a *AxisRange) SetYStep(v float64) { a.Y.Step = v }

// SetXStep overrides the X tick step.
func (a *AxisRange) SetXStep(v float64) { a.X.Step = v }

// ResetSteps restores the default tick steps.  Called on every new result so
// a step tuned for one geometry does not misrender the next.
func (a *AxisRange) ResetSteps() {
	a.X.Step = DefaultXStep
	a.Y.Step = DefaultYStep
}

// LockY sets the Y-axis lock, suppressing all automatic Y recomputation.
func (a *AxisRange) LockY(locked bool) { a.Y.Locked = locked }

// LockX sets the X-axis lock.
func (a *AxisRange) LockX(locked bool) { a.X.Locked = locked }

// ClearY drops both Y bounds back to autoscale, keeping the lock flag.
func (a *AxisRange) ClearY() {
	a.Y.Min.clear()
	a.Y.Max.clear()
}

// ClearX drops both X bounds back to autoscale, keeping the lock flag.
func (a *AxisRange) ClearX() {
	a.X.Min.clear()
	a.X.Max.clear()
}
