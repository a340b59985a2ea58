package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// HistoryLimit is the number of dataset loads shown on the info tab.
	HistoryLimit = 10

	// EmptyResultMessage is shown when the filters match no records.
	EmptyResultMessage = "No data for the selected filters"
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData restores the last session's filters, rebased onto the
// current dataset by the manager, falling back to the dataset defaults, and
// loads presets and history.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ds := mgr.Dataset()
		msg := InitialLoadMsg{
			Dataset: ds,
			Spec:    models.DefaultFilterSpec(ds),
		}

		saved, err := mgr.LoadFilters()
		if err != nil {
			msg.Err = err
		} else if saved != nil {
			msg.Spec = *saved
		}

		msg.Presets, _ = mgr.Presets()
		msg.History, _ = mgr.LoadHistory(HistoryLimit)
		return msg
	}
}

// computeCmd returns a command that recomputes the dashboard for spec.
func computeCmd(mgr *services.Manager, seq int, spec models.FilterSpec) tea.Cmd {
	return func() tea.Msg {
		result, err := mgr.Compute(spec)
		return ResultComputedMsg{Seq: seq, Result: result, Err: err}
	}
}

// reloadCmd re-reads the dataset. The outcome arrives as a service event.
func reloadCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		_ = mgr.Reload()
		return StopLoadingMsg{Resource: ResourceDataset}
	}
}

// exportCmd returns a command that writes result in format.
func exportCmd(mgr *services.Manager, format export.Format, result *services.Result) tea.Cmd {
	return func() tea.Msg {
		paths, err := mgr.Export(format, result)
		return ExportResultMsg{Format: format, Paths: paths, Err: err}
	}
}

// savePresetCmd returns a command that stores spec under name.
func savePresetCmd(mgr *services.Manager, name string, spec models.FilterSpec) tea.Cmd {
	return func() tea.Msg {
		return PresetSavedMsg{Name: name, Err: mgr.SavePreset(name, spec)}
	}
}

// deletePresetCmd returns a command that deletes a preset.
func deletePresetCmd(mgr *services.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		return PresetDeletedMsg{Name: name, Err: mgr.DeletePreset(name)}
	}
}

// loadPresetsCmd returns a command that lists the saved presets.
func loadPresetsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		presets, err := mgr.Presets()
		return PresetsLoadedMsg{Presets: presets, Err: err}
	}
}

// loadHistoryCmd returns a command that loads the dataset load history.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		entries, err := mgr.LoadHistory(HistoryLimit)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}
