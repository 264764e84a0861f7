package app

import (
	"strconv"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/screens/lab"
	"github.com/abhisek/musiclab/internal/ui/layout"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestApp(t *testing.T) (AppModel, *progress.Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)}
	svc := progress.NewService(progress.NewStore(progress.NewMemoryBackend()), progress.WithClock(c.now))
	m := newAppModel(Options{Progress: svc, NoSplash: true, Now: c.now})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 45})
	return next.(AppModel), svc, c
}

// drive feeds msg through the model and follows the navigation and
// progress messages it produces. Anything else, such as ticks, is dropped.
func drive(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	for range 10 {
		next, cmd := m.Update(msg)
		m = next.(AppModel)
		if cmd == nil {
			return m
		}
		msg = cmd()
		switch msg.(type) {
		case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg,
			screen.SessionRecordedMsg, screen.ProgressChangedMsg:
		default:
			return m
		}
	}
	return m
}

func TestLabVisitUpdatesHeader(t *testing.T) {
	m, svc, c := newTestApp(t)
	assert.Equal(t, 1, m.router.Depth())

	m = drive(t, m, tea.KeyPressMsg{Code: '1', Text: "1"})
	require.Equal(t, 2, m.router.Depth())
	l, ok := m.router.Active().(*lab.Screen)
	require.True(t, ok)
	assert.Equal(t, labs.Rhythm, l.Lab().ID)

	m = drive(t, m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	c.t = c.t.Add(3 * time.Minute)
	m = drive(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})

	assert.Equal(t, 1, m.router.Depth())
	want := progress.XPForSession((3 * time.Minute).Milliseconds(), 1)
	assert.Equal(t, want, m.stats.XP)
	assert.Equal(t, 1, m.stats.Streak)

	data, _ := svc.SessionData(t.Context())
	assert.Equal(t, 1, data.LabStats[labs.Rhythm].TotalSessions)
	assert.Contains(t, m.router.View(120, 40), "+"+strconv.Itoa(want)+" XP")
}

func TestEscAtHomeDoesNothing(t *testing.T) {
	m, _, _ := newTestApp(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestCtrlCClosesOpenLab(t *testing.T) {
	m, _, c := newTestApp(t)
	m = drive(t, m, tea.KeyPressMsg{Code: '4', Text: "4"})
	require.Equal(t, 2, m.router.Depth())
	c.t = c.t.Add(time.Minute)

	l := m.router.Active().(*lab.Screen)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Nil(t, l.Leave(), "the visit should already be closed")
}

func TestProgressChangedUpdatesHeader(t *testing.T) {
	m, _, _ := newTestApp(t)
	data := progress.Default()
	data.TotalXP = 250
	data.Level = 3
	m = drive(t, m, screen.ProgressChangedMsg{Data: data})
	assert.Equal(t, 3, m.stats.Level)
	assert.Contains(t, layout.RenderHeader("Home", m.stats, 120), "Lv 3")
}

func TestStartLab(t *testing.T) {
	m := newAppModel(Options{StartLab: labs.Harmony})
	require.Equal(t, 2, m.router.Depth())
	l, ok := m.router.Active().(*lab.Screen)
	require.True(t, ok)
	assert.Equal(t, labs.Harmony, l.Lab().ID)
	assert.NotNil(t, m.Init())
}

func TestSplashFirst(t *testing.T) {
	m := newAppModel(Options{})
	assert.Equal(t, "", m.router.Active().Title())
	assert.Equal(t, 1, m.stats.Level)
}

