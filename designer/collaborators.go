package designer

import "context"

// Severity classifies a notification for the host's alert surface.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type (
	// Prompter is the host-provided modal surface. Confirm resolves a
	// yes/no question; Input collects a line of text, with ok=false when
	// the user cancelled the dialog.
	Prompter interface {
		Confirm(ctx context.Context, title, message string) (bool, error)
		Input(ctx context.Context, title, message, defaultValue string) (value string, ok bool, err error)
	}

	// Notifier is the host-provided alert surface for operation outcomes.
	Notifier interface {
		Notify(title, message string, severity Severity)
	}
)

// NopNotifier discards notifications. Useful for embedding the engine
// without an alert surface.
type NopNotifier struct{}

func (NopNotifier) Notify(title, message string, severity Severity) {}
