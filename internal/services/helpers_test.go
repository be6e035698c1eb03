package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"travelogue/internal/models"
	"travelogue/internal/providers"
)

// local mocks to avoid import cycle with testutil
type serviceTestLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *serviceTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *serviceTestLogger) Warnf(_ providers.TypeEnum, format string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, format)
}
func (l *serviceTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *serviceTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *serviceTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *serviceTestLogger) Close()                                                  {}

type serviceTestMetrics struct {
	mu           sync.Mutex
	syncEvents   map[string]int
	malformed    int
	loadProblems int
	visitsTotal  int
	activeVisits int
}

func newServiceTestMetrics() *serviceTestMetrics {
	return &serviceTestMetrics{syncEvents: make(map[string]int)}
}

func (m *serviceTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *serviceTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *serviceTestMetrics) IncCacheHits()                                    {}
func (m *serviceTestMetrics) IncCacheMisses()                                  {}
func (m *serviceTestMetrics) ObserveFilterDuration(_ time.Duration)            {}
func (m *serviceTestMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *serviceTestMetrics) IncSyncEvents(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncEvents[source]++
}
func (m *serviceTestMetrics) IncMalformedTokens(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.malformed += count
}
func (m *serviceTestMetrics) IncLoadProblems(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadProblems += count
}
func (m *serviceTestMetrics) SetVisitsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visitsTotal = count
}
func (m *serviceTestMetrics) SetActiveVisits(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeVisits = count
}

func testPayload() *models.Payload {
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

func newTestCollection(t *testing.T) *models.LogCollection {
	t.Helper()
	lc, problems := models.NewLogCollection(testPayload())
	require.Empty(t, problems)
	return lc
}

func rowIDs(view *models.View) []int {
	ids := make([]int, 0, len(view.Rows))
	for _, r := range view.Rows {
		ids = append(ids, r.VisitID)
	}
	return ids
}

// activeFlags lists visit id and active flag in collection order.
func activeFlags(lc *models.LogCollection) [][2]int {
	out := make([][2]int, 0, lc.Len())
	for _, v := range lc.Visits() {
		flag := 0
		if v.Active {
			flag = 1
		}
		out = append(out, [2]int{v.ID, flag})
	}
	return out
}
