package app

import (
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// InitialLoadMsg carries everything the UI needs before the first compute.
type InitialLoadMsg struct {
	Dataset *models.Dataset
	Spec    models.FilterSpec
	Presets []models.Preset
	History []models.LoadEntry
	Err     error
}

// FiltersChangedMsg is sent by a tab when the user edits the filters.
type FiltersChangedMsg struct {
	Spec models.FilterSpec
}

// ResetFiltersMsg restores the filters to the dataset defaults.
type ResetFiltersMsg struct{}

// ResultComputedMsg carries the outcome of one recomputation. Seq identifies
// the filter change that requested it.
type ResultComputedMsg struct {
	Seq    int
	Result *services.Result
	Err    error
}

// DatasetReloadedMsg is forwarded to tabs after the snapshot was replaced.
type DatasetReloadedMsg struct {
	Dataset *models.Dataset
}

// SavePresetMsg requests saving the active filters under Name.
type SavePresetMsg struct {
	Name string
}

// PresetSavedMsg contains the result of saving a preset.
type PresetSavedMsg struct {
	Name string
	Err  error
}

// ApplyPresetMsg requests replacing the active filters with a saved preset.
type ApplyPresetMsg struct {
	Preset models.Preset
}

// DeletePresetMsg requests deleting a saved preset.
type DeletePresetMsg struct {
	Name string
}

// PresetDeletedMsg contains the result of deleting a preset.
type PresetDeletedMsg struct {
	Name string
	Err  error
}

// PresetsLoadedMsg contains the saved presets.
type PresetsLoadedMsg struct {
	Presets []models.Preset
	Err     error
}

// HistoryLoadedMsg contains the dataset load history.
type HistoryLoadedMsg struct {
	Entries []models.LoadEntry
	Err     error
}

// ExportRequestMsg requests writing the current dashboard in Format.
type ExportRequestMsg struct {
	Format export.Format
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Format export.Format
	Paths  []string
	Err    error
}

// RefreshMsg requests re-reading the dataset file.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
