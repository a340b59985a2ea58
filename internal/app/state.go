// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the notification has outlived its duration at now.
func (n *Notification) IsExpired(now time.Time) bool {
	if n.Duration <= 0 {
		return false
	}
	return now.Sub(n.CreatedAt) > n.Duration
}

// Loading resources.
const (
	ResourceInitial = "initial"
	ResourceCompute = "compute"
	ResourceDataset = "dataset"
	ResourceExport  = "export"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Compute bool
	Dataset bool
	Export  bool
}

// State is shared between the root model and the tabs.
type State struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	dataset     *models.Dataset
	spec        models.FilterSpec
	result      *services.Result
	computeSeq  int
	presets     []models.Preset
	loadHistory []models.LoadEntry

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state. A nil clock uses the wall clock.
func NewState(clock clockwork.Clock) *State {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &State{
		clock:         clock,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// Clock returns the clock the state uses for notification expiry.
func (s *State) Clock() clockwork.Clock {
	return s.clock
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceCompute:
		s.Loading.Compute = loading
	case ResourceDataset:
		s.Loading.Dataset = loading
	case ResourceExport:
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Compute ||
		s.Loading.Dataset ||
		s.Loading.Export
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Compute {
		resources = append(resources, ResourceCompute)
	}
	if s.Loading.Dataset {
		resources = append(resources, ResourceDataset)
	}
	if s.Loading.Export {
		resources = append(resources, ResourceExport)
	}
	return resources
}

// SetDataset replaces the current snapshot.
func (s *State) SetDataset(ds *models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
}

// GetDataset returns the current snapshot, or nil before the first load.
func (s *State) GetDataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// SetSpec replaces the active filters and returns the sequence number of the
// recomputation they require.
func (s *State) SetSpec(spec models.FilterSpec) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec.Clone()
	s.computeSeq++
	return s.computeSeq
}

// GetSpec returns a copy of the active filters.
func (s *State) GetSpec() models.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec.Clone()
}

// SetResult stores a computed result unless a newer filter change has
// superseded it. It reports whether the result was kept.
func (s *State) SetResult(seq int, result *services.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.computeSeq {
		return false
	}
	s.result = result
	s.LastUpdated = s.clock.Now()
	return true
}

// GetResult returns the latest computed result.
func (s *State) GetResult() *services.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// GetDashboard returns the latest dashboard, or nil when nothing matched.
func (s *State) GetDashboard() *models.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil
	}
	return s.result.Dashboard
}

// IsEmpty reports whether the latest computation matched no records.
func (s *State) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result != nil && s.result.Empty
}

// SetPresets replaces the saved preset list.
func (s *State) SetPresets(presets []models.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = slices.Clone(presets)
}

// GetPresets returns a copy of the saved presets.
func (s *State) GetPresets() []models.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.presets)
}

// SetLoadHistory replaces the dataset load history.
func (s *State) SetLoadHistory(entries []models.LoadEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadHistory = slices.Clone(entries)
}

// GetLoadHistory returns a copy of the dataset load history.
func (s *State) GetLoadHistory() []models.LoadEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.loadHistory)
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.notificationSeq++
	id := now.Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: now,
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.activeNotifications()
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeNotifications()
}

func (s *State) activeNotifications() []Notification {
	now := s.clock.Now()
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired(now) {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: s.clock.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time a result was stored.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return s.clock.Since(s.LastUpdated)
}
