// Package lab hosts the six interactive lab screens. Every lab shares the
// same frame: a tracker that measures the visit, a feedback line, and a
// ticker for anything that animates. The lab-specific part is an
// Activity.
package lab

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

const tickInterval = 50 * time.Millisecond

// Outcome is what an activity reports after handling input or a tick.
type Outcome struct {
	// Activity is the number of interactions to credit to the visit.
	Activity int

	// Feedback, when non-empty, replaces the feedback line.
	Feedback coach.Feedback
}

// Activity is the lab-specific half of a lab screen.
type Activity interface {
	// Key handles a normalized key name ("space", "up", "a", ...).
	Key(key string, now time.Time) Outcome

	// Tick advances anything that plays over time.
	Tick(now time.Time) Outcome

	// View renders the lab body at content width cw.
	View(cw int, now time.Time) string

	KeyHints() []layout.KeyHint
}

// Recorder is the part of progress.Service a lab screen writes to.
type Recorder interface {
	RecordSession(ctx context.Context, s progress.LabSession) (progress.RecordResult, error)
}

var tickSeq atomic.Int64

type tickMsg struct {
	id int64
	at time.Time
}

// Screen is a lab screen.
type Screen struct {
	lab      labs.Lab
	activity Activity
	tracker  *progress.Tracker
	recorder Recorder
	now      func() time.Time
	tickID   int64
	feedback coach.Feedback
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Leaver = (*Screen)(nil)

// Deps are shared by every lab screen.
type Deps struct {
	Recorder   Recorder
	Feedbacker *coach.Feedbacker
	Now        func() time.Time
}

// New opens the lab id. The visit starts now.
func New(id labs.ID, deps Deps) (*Screen, error) {
	lab, ok := labs.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", progress.ErrUnknownLab, id)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Feedbacker == nil {
		deps.Feedbacker = coach.NewFeedbacker(nil)
	}
	return &Screen{
		lab:      lab,
		activity: newActivity(id, deps.Feedbacker),
		tracker:  progress.StartTracker(id, deps.Now()),
		recorder: deps.Recorder,
		now:      deps.Now,
		tickID:   tickSeq.Add(1),
	}, nil
}

func newActivity(id labs.ID, fb *coach.Feedbacker) Activity {
	switch id {
	case labs.Rhythm:
		return newRhythmActivity(fb)
	case labs.Pitch:
		return newPitchActivity(fb)
	case labs.SoundDesign:
		return newSoundActivity()
	case labs.Pattern:
		return newPatternActivity()
	case labs.Harmony:
		return newHarmonyActivity()
	default:
		return newCreativityActivity()
	}
}

// Lab returns the catalog entry of the open lab.
func (s *Screen) Lab() labs.Lab { return s.lab }

// Tracker exposes the visit being measured.
func (s *Screen) Tracker() *progress.Tracker { return s.tracker }

func (s *Screen) Title() string {
	return s.lab.Icon + " " + s.lab.Name
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return append(s.activity.KeyHints(), layout.KeyHint{Key: "Esc", Description: "Finish"})
}

func (s *Screen) Init() tea.Cmd {
	return s.tick()
}

func (s *Screen) tick() tea.Cmd {
	id := s.tickID
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.id != s.tickID {
			return s, nil
		}
		s.apply(s.activity.Tick(s.now()))
		return s, s.tick()

	case tea.KeyPressMsg:
		s.apply(s.activity.Key(normalizeKey(msg.String()), s.now()))
		return s, nil
	}
	return s, nil
}

func (s *Screen) apply(o Outcome) {
	s.tracker.Record(o.Activity)
	if o.Feedback.Message != "" {
		s.feedback = o.Feedback
	}
}

// Leave closes the visit and records it in the background.
func (s *Screen) Leave() tea.Cmd {
	sess, ok := s.tracker.Finish(s.now())
	if !ok || s.recorder == nil {
		return nil
	}
	rec := s.recorder
	return func() tea.Msg {
		res, err := rec.RecordSession(context.Background(), sess)
		return screen.SessionRecordedMsg{Result: res, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	now := s.now()
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).Italic(true).
		Render(s.lab.Description))

	sections = append(sections, s.activity.View(cw, now))
	sections = append(sections, renderFeedback(s.feedback))

	elapsed := s.tracker.Elapsed(now).Truncate(time.Second)
	status := fmt.Sprintf("⏱ %s   ✋ %d   +%d XP so far",
		elapsed, s.tracker.Activity(),
		progress.XPForSession(elapsed.Milliseconds(), s.tracker.Activity()))
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render(status))

	if tip := s.tip(now); tip != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("💡 "+tip))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// tip rotates through the lab's tips every 10 seconds.
func (s *Screen) tip(now time.Time) string {
	if len(s.lab.Tips) == 0 {
		return ""
	}
	i := int(s.tracker.Elapsed(now)/(10*time.Second)) % len(s.lab.Tips)
	return s.lab.Tips[i]
}

func renderFeedback(fb coach.Feedback) string {
	if fb.Message == "" {
		return " "
	}
	style := lipgloss.NewStyle().Bold(true)
	switch fb.Type {
	case coach.Celebration:
		style = style.Foreground(theme.Success)
	case coach.Hint:
		style = style.Foreground(theme.Accent)
	default:
		style = style.Foreground(theme.Error)
	}
	return style.Render(fb.Message)
}

func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
