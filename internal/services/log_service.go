package services

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"travelogue/internal/models"
	"travelogue/internal/providers"
)

type TypeOption struct {
	Value models.EntityType `json:"value"`
	Label string            `json:"label"`
}

type CountryOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Options lists the choices the control surface offers for the loaded log.
type Options struct {
	Types     []TypeOption    `json:"types"`
	Countries []CountryOption `json:"countries"`
	Years     []int           `json:"years"`
	Columns   []string        `json:"columns"`
}

type LogServiceInterface interface {
	Load(payload *models.Payload) error
	Loaded() bool
	Generation() uint64
	VisitCount() int
	ChangeControls(values ControlValues) (*models.View, error)
	Navigate(fragment string) (*models.View, error)
	Back() (*models.View, error)
	Forward() (*models.View, error)
	Current() (*models.View, error)
	Controls() ControlValues
	Render(fragment string) (*models.View, error)
	Options() (*Options, error)
	Snapshot() providers.HistorySnapshot
	Restore(snapshot providers.HistorySnapshot) error
}

// LogService owns the loaded log. Every call runs under one mutex, so event
// handlers never interleave. The session collection backs the history sync;
// a second copy serves stateless renders of arbitrary fragments.
type LogService struct {
	mu          sync.Mutex
	session     *models.LogCollection
	scratch     *models.LogCollection
	historySync *HistorySync
	controls    *FormControls
	history     providers.HistoryProviderInterface
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	generation  atomic.Uint64
}

func NewLogService(history providers.HistoryProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) LogServiceInterface {
	controls := NewFormControls()
	hs := NewHistorySync(history, controls, logger, metrics)
	hs.Bind()
	return &LogService{
		historySync: hs,
		controls:    controls,
		history:     history,
		logger:      logger,
		metrics:     metrics,
	}
}

var errNilPayload = errors.New("nil payload")

// Load replaces the collection. Records that do not fit the graph are logged
// and left out. The current history entry is re-applied to the new data.
func (s *LogService) Load(payload *models.Payload) error {
	if payload == nil {
		return errNilPayload
	}
	session, problems := models.NewLogCollection(payload)
	scratch, _ := models.NewLogCollection(payload)

	for _, p := range problems {
		var dangling *models.DanglingReferenceError
		if errors.As(p, &dangling) {
			s.logger.Warnf(providers.TypeApp, "Dropping visit: %v", p)
			continue
		}
		s.logger.Warnf(providers.TypeApp, "Skipping record: %v", p)
	}
	if len(problems) > 0 {
		s.metrics.IncLoadProblems(len(problems))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session, s.scratch = session, scratch
	gen := s.generation.Inc()
	s.metrics.SetVisitsTotal(session.Len())
	s.logger.Infof(providers.TypeApp, "Loaded %d entities and %d visits (generation %d, %d problems)",
		len(session.Entities()), session.Len(), gen, len(problems))

	_, err := s.historySync.Reset(session)
	return err
}

func (s *LogService) Loaded() bool {
	return s.generation.Load() > 0
}

func (s *LogService) Generation() uint64 {
	return s.generation.Load()
}

func (s *LogService) VisitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0
	}
	return s.session.Len()
}

func (s *LogService) ChangeControls(values ControlValues) (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historySync.OnControlChange(values)
}

func (s *LogService) Navigate(fragment string) (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historySync.Navigate(fragment)
}

func (s *LogService) Back() (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historySync.Back()
}

func (s *LogService) Forward() (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historySync.Forward()
}

func (s *LogService) Current() (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, view := s.historySync.Current()
	if view == nil {
		return nil, ErrNotLoaded
	}
	return view, nil
}

func (s *LogService) Controls() ControlValues {
	return s.controls.Values()
}

// Render applies fragment to the scratch collection without touching the
// session or its history.
func (s *LogService) Render(fragment string) (*models.View, error) {
	fs, problems := models.Decode(fragment)
	for _, p := range problems {
		s.logger.Debugf(providers.TypeFilter, "Skipping fragment token: %v", p)
	}
	if len(problems) > 0 {
		s.metrics.IncMalformedTokens(len(problems))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scratch == nil {
		return nil, ErrNotLoaded
	}
	if _, err := s.scratch.Apply(fs); err != nil {
		return nil, err
	}
	return s.scratch.Render(models.Encode(fs)), nil
}

func (s *LogService) Options() (*Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNotLoaded
	}

	opts := &Options{
		Types:     make([]TypeOption, 0, len(models.EntityTypes)),
		Countries: make([]CountryOption, 0),
		Years:     s.session.Years(),
		Columns:   make([]string, 0, len(models.SortColumns)),
	}
	for _, t := range models.EntityTypes {
		opts.Types = append(opts.Types, TypeOption{Value: t, Label: t.Label()})
	}
	for code, name := range s.session.Countries() {
		opts.Countries = append(opts.Countries, CountryOption{Code: code, Name: name})
	}
	slices.SortFunc(opts.Countries, func(a, b CountryOption) int {
		return strings.Compare(a.Code, b.Code)
	})
	for _, c := range models.SortColumns {
		opts.Columns = append(opts.Columns, string(c))
	}
	return opts, nil
}

func (s *LogService) Snapshot() providers.HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Snapshot()
}

// Restore replaces the session history and applies its current entry.
func (s *LogService) Restore(snapshot providers.HistorySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Restore(snapshot)
	if s.session == nil {
		return nil
	}
	_, err := s.historySync.OnNavigation(s.history.Current())
	return err
}
