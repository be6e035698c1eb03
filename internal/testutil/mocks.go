package testutil

import (
	"sync"
	"time"

	"travelogue/internal/models"
	"travelogue/internal/providers"
	"travelogue/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu              sync.Mutex
	SyncEvents      map[string]int
	MalformedTokens int
	LoadProblems    int
	VisitsTotal     int
	ActiveVisits    int
	CacheHits       int
	CacheMisses     int
	Persisted       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{SyncEvents: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveFilterDuration(_ time.Duration)            {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncSyncEvents(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncEvents[source]++
}

func (m *MockMetrics) IncMalformedTokens(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MalformedTokens += count
}

func (m *MockMetrics) IncLoadProblems(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadProblems += count
}

func (m *MockMetrics) SetVisitsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisitsTotal = count
}

func (m *MockMetrics) SetActiveVisits(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveVisits = count
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.Data)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockLogService implements services.LogServiceInterface. Calls are counted
// and results come from the exported fields.
type MockLogService struct {
	mu          sync.Mutex
	Gen         uint64
	Visits      int
	View        *models.View
	Err         error
	Opts        *services.Options
	Values      services.ControlValues
	History     providers.HistorySnapshot
	Loads       []*models.Payload
	Rendered    []string
	Navigated   []string
	ControlSets []services.ControlValues
	Restored    []providers.HistorySnapshot
	Backs       int
	Forwards    int
}

func (m *MockLogService) Load(payload *models.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads = append(m.Loads, payload)
	m.Gen++
	return m.Err
}

func (m *MockLogService) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Gen > 0
}

func (m *MockLogService) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Gen
}

func (m *MockLogService) VisitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Visits
}

func (m *MockLogService) ChangeControls(values services.ControlValues) (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ControlSets = append(m.ControlSets, values)
	return m.View, m.Err
}

func (m *MockLogService) Navigate(fragment string) (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Navigated = append(m.Navigated, fragment)
	return m.View, m.Err
}

func (m *MockLogService) Back() (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Backs++
	return m.View, m.Err
}

func (m *MockLogService) Forward() (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Forwards++
	return m.View, m.Err
}

func (m *MockLogService) Current() (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.View, m.Err
}

func (m *MockLogService) Controls() services.ControlValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Values
}

func (m *MockLogService) Render(fragment string) (*models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, fragment)
	return m.View, m.Err
}

func (m *MockLogService) Options() (*services.Options, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Opts, m.Err
}

func (m *MockLogService) Snapshot() providers.HistorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.History
}

func (m *MockLogService) Restore(snapshot providers.HistorySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = append(m.Restored, snapshot)
	m.History = snapshot
	return m.Err
}

// Payload is a small travel log shared by package tests: a heritage site and
// a city in Germany, France itself and a landmark in France. Berlin has three
// visits loaded out of order.
func Payload() *models.Payload {
	return &models.Payload{
		Entities: []models.EntityRecord{
			{ID: 1, Type: "wh", Code: "3", Name: "Aachen Cathedral", CountryCode: "DE", CountryName: "Germany"},
			{ID: 2, Type: "co", Code: "FR", Name: "France"},
			{ID: 3, Type: "lm", Code: "eiffel", Name: "Eiffel Tower", CountryCode: "FR", CountryName: "France"},
			{ID: 4, Type: "ct", Code: "ber", Name: "Berlin", CountryCode: "DE", CountryName: "Germany"},
		},
		Logs: []models.LogRecord{
			{ID: 10, Entity: 1, Arrival: "2020-05-01", Rating: 4},
			{ID: 20, Entity: 2, Arrival: "2019-03-01T10:00:00Z", Rating: 3},
			{ID: 30, Entity: 3, Arrival: "2019-03-02T10:00:00Z", Rating: 5},
			{ID: 41, Entity: 4, Arrival: "2020-07-01", Rating: 3},
			{ID: 40, Entity: 4, Arrival: "2019-07-01", Rating: 2},
			{ID: 42, Entity: 4, Arrival: "2021-07-01", Rating: 3},
		},
	}
}

// RowIDs returns the visit ids of the rendered rows in order.
func RowIDs(view *models.View) []int {
	ids := make([]int, 0, len(view.Rows))
	for _, r := range view.Rows {
		ids = append(ids, r.VisitID)
	}
	return ids
}
