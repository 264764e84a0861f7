package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that have work to finish when they are
// popped, such as recording a lab visit. The returned command runs after
// the screen is gone.
type Leaver interface {
	Leave() tea.Cmd
}

// SessionRecordedMsg carries the outcome of recording a lab visit. It is
// delivered to the screen underneath the lab and to the app header.
type SessionRecordedMsg struct {
	Result progress.RecordResult
	Err    error
}

// ProgressChangedMsg tells screens showing progress to reload it.
type ProgressChangedMsg struct {
	Data progress.UserSessionData
}

// InputCapturer is implemented by screens that sometimes need Esc for
// themselves, such as while a text field is being edited.
type InputCapturer interface {
	CapturingInput() bool
}
