package dataset

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// EventType defines the type of dataset event.
type EventType int

const (
	// EventLoaded is sent after the initial load.
	EventLoaded EventType = iota
	// EventReloaded is sent after the file changed and was parsed successfully.
	EventReloaded
	// EventError is sent when a reload or the watcher fails.
	EventError
)

// Event represents a dataset service event.
type Event struct {
	Type     EventType
	Dataset  *models.Dataset
	Duration time.Duration
	Error    error
}

// Options configures a Service.
type Options struct {
	// Watch enables reloading when the file changes on disk.
	Watch bool
	// Debounce collapses bursts of write events into one reload.
	Debounce time.Duration
	// Clock stamps load times and drives the debounce; defaults to the real clock.
	Clock clockwork.Clock
}

// Service owns the current dataset snapshot and reloads it on change.
// A published snapshot is never modified; reloads swap in a new one.
type Service struct {
	mu            sync.RWMutex
	path          string
	current       *models.Dataset
	opts          Options
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer clockwork.Timer
}

// New loads the dataset at path and, if enabled, starts watching it.
func New(path string, opts Options) (*Service, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}

	s := &Service{
		path:      path,
		opts:      opts,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	ds, elapsed, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = ds

	if opts.Watch {
		if err := s.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	s.sendEvent(Event{Type: EventLoaded, Dataset: ds, Duration: elapsed})
	return s, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Current returns the current snapshot.
func (s *Service) Current() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the watched file path.
func (s *Service) Path() string {
	return s.path
}

// Reload re-reads the file. On failure the previous snapshot is kept.
func (s *Service) Reload() (*models.Dataset, error) {
	ds, elapsed, err := s.load()
	if err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return nil, err
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventReloaded, Dataset: ds, Duration: elapsed})
	return ds, nil
}

func (s *Service) load() (*models.Dataset, time.Duration, error) {
	start := s.opts.Clock.Now()
	records, err := LoadFile(s.path)
	if err != nil {
		return nil, 0, err
	}
	now := s.opts.Clock.Now()
	logger.Info("dataset loaded", "path", s.path, "rows", len(records))
	return models.NewDataset(s.path, now, records), now.Sub(start), nil
}

// startWatcher watches the parent directory so editors that replace the file
// on save are still picked up.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.scheduleReload()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = s.opts.Clock.AfterFunc(s.opts.Debounce, func() {
		select {
		case <-s.stopChan:
			return
		default:
		}
		if _, err := s.Reload(); err != nil {
			logger.Warn("dataset reload failed, keeping previous snapshot", "error", err)
		}
	})
}

// sendEvent sends an event without blocking, dropping the oldest when full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (s *Service) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
