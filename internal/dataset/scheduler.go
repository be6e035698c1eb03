package dataset

import (
	"os"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"travelogue/internal/dataset/interfaces"
	"travelogue/internal/providers"
	"travelogue/internal/services"
	"travelogue/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.LogServiceInterface
	fileManager *FileManager
	cache       providers.CacheProviderInterface
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
	modTime     time.Time
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Session.SaveInterval), func() {
		if err := s.Persist(); err == nil {
			s.logger.Debugf(providers.TypeApp, "Persisted session to file %s", s.config.Session.FilePath)
		}
	})

	if s.config.Dataset.ReloadInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Dataset.ReloadInterval), func() {
			if err := s.Reload(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while reloading dataset: %s", err)
			}
		})
	}

	s.cron.Start()
}

// Stop halts the periodic jobs and releases the file manager. Persist the
// session before calling it.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.fileManager.Close()
}

// Restore loads the dataset, then the persisted session if one exists. A
// missing or unreadable dataset is fatal to startup; a bad session file is
// logged and ignored.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	snapshot, found, err := s.fileManager.LoadSession(s.config.Session.FilePath)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Ignoring session file %s: %s", s.config.Session.FilePath, err)
		return nil
	}
	if !found {
		return nil
	}
	if err := s.service.Restore(snapshot); err != nil {
		s.logger.Warnf(providers.TypeApp, "Unable to apply restored session: %s", err)
	}
	s.logger.Infof(providers.TypeApp, "Restored session with %d history entries", len(snapshot.Entries))
	return nil
}

// Reload loads the dataset again when its modification time has changed.
func (s *Scheduler) Reload() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	info, err := os.Stat(s.config.Dataset.FilePath)
	if err != nil {
		return err
	}
	if info.ModTime().Equal(s.modTime) {
		return nil
	}
	if err := s.load(); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

func (s *Scheduler) load() error {
	path := s.config.Dataset.FilePath
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	payload, err := s.fileManager.LoadDataset(path)
	if err != nil {
		return err
	}
	if err := s.service.Load(payload); err != nil {
		return err
	}
	s.modTime = info.ModTime()
	s.logger.Infof(providers.TypeApp, "Dataset loaded from %s", path)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveSession(s.config.Session.FilePath, s.service.Snapshot())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting session: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.LogServiceInterface, fileManager *FileManager, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		cache:       cache,
		metrics:     metrics,
	}
}
