package services

import (
	"errors"
	"time"

	"go.uber.org/atomic"
	"travelogue/internal/models"
	"travelogue/internal/providers"
)

var (
	ErrSyncBusy     = errors.New("history sync is applying another change")
	ErrNotLoaded    = errors.New("no log collection loaded")
	ErrNoNavigation = errors.New("no history entry in that direction")
)

type SyncState int32

const (
	Idle SyncState = iota
	ApplyingFromControl
	ApplyingFromNavigation
)

func (s SyncState) String() string {
	switch s {
	case Idle:
		return "idle"
	case ApplyingFromControl:
		return "control"
	case ApplyingFromNavigation:
		return "navigation"
	}
	return "unknown"
}

// HistorySync keeps the filter state, the history fragment and the controls
// in step. Control edits push a history entry and apply directly; navigations
// decode the fragment, reflect it in the controls and apply. Either way the
// collection ends up in the state Apply produces for the same FilterState.
//
// Events that arrive while a change is being applied are rejected with
// ErrSyncBusy, which is what stops the controls update made during a
// navigation from coming back as a control edit.
type HistorySync struct {
	state      atomic.Int32
	collection *models.LogCollection
	history    providers.HistoryProviderInterface
	controls   Controls
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	current models.FilterState
	view    *models.View
}

func NewHistorySync(history providers.HistoryProviderInterface, controls Controls, logger providers.Logger, metrics providers.MetricsProviderInterface) *HistorySync {
	return &HistorySync{
		history:  history,
		controls: controls,
		logger:   logger,
		metrics:  metrics,
	}
}

// Bind subscribes to the controls so that edits made on them directly are
// treated as control changes.
func (hs *HistorySync) Bind() {
	hs.controls.Subscribe(func(values ControlValues) {
		_, err := hs.OnControlChange(values)
		switch {
		case err == nil, errors.Is(err, ErrSyncBusy):
		default:
			hs.logger.Warnf(providers.TypeHistory, "Control change rejected: %v", err)
		}
	})
}

func (hs *HistorySync) State() SyncState {
	return SyncState(hs.state.Load())
}

func (hs *HistorySync) enter(s SyncState) bool {
	return hs.state.CompareAndSwap(int32(Idle), int32(s))
}

func (hs *HistorySync) leave() {
	hs.state.Store(int32(Idle))
}

func (hs *HistorySync) OnControlChange(values ControlValues) (*models.View, error) {
	if !hs.enter(ApplyingFromControl) {
		return nil, ErrSyncBusy
	}
	defer hs.leave()

	if hs.collection == nil {
		return nil, ErrNotLoaded
	}
	fs, err := FromControls(values)
	if err != nil {
		return nil, err
	}
	fs.Extras = hs.current.Extras

	hs.controls.Set(values)
	fragment := models.Encode(fs)
	hs.history.PushState(fragment)
	hs.logger.Debugf(providers.TypeHistory, "Control change -> %s", fragment)
	hs.metrics.IncSyncEvents(ApplyingFromControl.String())

	return hs.apply(fs)
}

// OnNavigation handles the history moving to fragment, either by back or
// forward or by loading a link directly. Malformed tokens are logged and
// skipped.
func (hs *HistorySync) OnNavigation(fragment string) (*models.View, error) {
	if !hs.enter(ApplyingFromNavigation) {
		return nil, ErrSyncBusy
	}
	defer hs.leave()

	if hs.collection == nil {
		return nil, ErrNotLoaded
	}
	fs, problems := models.Decode(fragment)
	for _, p := range problems {
		hs.logger.Warnf(providers.TypeHistory, "Skipping fragment token: %v", p)
	}
	if len(problems) > 0 {
		hs.metrics.IncMalformedTokens(len(problems))
	}

	hs.controls.Set(ToControls(fs))
	hs.logger.Debugf(providers.TypeHistory, "Navigation -> %s", fragment)
	hs.metrics.IncSyncEvents(ApplyingFromNavigation.String())

	return hs.apply(fs)
}

// Navigate loads fragment as a new history entry, like following a link.
func (hs *HistorySync) Navigate(fragment string) (*models.View, error) {
	if hs.State() != Idle {
		return nil, ErrSyncBusy
	}
	if hs.collection == nil {
		return nil, ErrNotLoaded
	}
	hs.history.PushState(fragment)
	return hs.OnNavigation(fragment)
}

func (hs *HistorySync) Back() (*models.View, error) {
	if hs.State() != Idle {
		return nil, ErrSyncBusy
	}
	fragment, moved := hs.history.Back()
	if !moved {
		return nil, ErrNoNavigation
	}
	return hs.OnNavigation(fragment)
}

func (hs *HistorySync) Forward() (*models.View, error) {
	if hs.State() != Idle {
		return nil, ErrSyncBusy
	}
	fragment, moved := hs.history.Forward()
	if !moved {
		return nil, ErrNoNavigation
	}
	return hs.OnNavigation(fragment)
}

// Reset points the sync at a freshly loaded collection and re-applies the
// fragment the history is on.
func (hs *HistorySync) Reset(collection *models.LogCollection) (*models.View, error) {
	if hs.State() != Idle {
		return nil, ErrSyncBusy
	}
	hs.collection = collection
	hs.view = nil
	return hs.OnNavigation(hs.history.Current())
}

func (hs *HistorySync) apply(fs models.FilterState) (*models.View, error) {
	start := time.Now()
	if _, err := hs.collection.Apply(fs); err != nil {
		return nil, err
	}
	view := hs.collection.Render(models.Encode(fs))
	hs.metrics.ObserveFilterDuration(time.Since(start))
	hs.metrics.SetActiveVisits(view.Shown)

	hs.current = fs
	hs.view = view
	hs.logger.Debugf(providers.TypeFilter, "Applied %s: %d of %d visits shown", view.Fragment, view.Shown, view.GrandTotal)
	return view, nil
}

// Current returns the applied state and its view. The view is nil until the
// first change has been applied.
func (hs *HistorySync) Current() (models.FilterState, *models.View) {
	return hs.current, hs.view
}
