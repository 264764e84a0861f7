package home

import (
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/screens/lab"
)

func newService() *progress.Service {
	return progress.NewService(progress.NewStore(progress.NewMemoryBackend()))
}

func digit(d rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: d, Text: string(d)}
}

func TestMenuListsLabsFirst(t *testing.T) {
	h := New(Deps{Progress: newService()})
	labels := h.menu.Labels()
	require.Len(t, labels, len(labs.All())+4)
	for i, l := range labs.All() {
		assert.Contains(t, labels[i], l.Name)
	}
	assert.True(t, h.menu.Items[len(labs.All())+1].Disabled, "history needs an event log")
}

func TestDigitOpensLab(t *testing.T) {
	h := New(Deps{Progress: newService()})
	_, cmd := h.Update(digit('3'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	s, ok := push.Screen.(*lab.Screen)
	require.True(t, ok)
	assert.Equal(t, labs.SoundDesign, s.Lab().ID)
}

func TestSuggestedLabOnNewUser(t *testing.T) {
	h := New(Deps{})
	assert.Equal(t, labs.Rhythm, h.suggested)
	assert.Contains(t, h.View(100, 50), "LEVEL 1")
}

func TestSessionRecordedNotice(t *testing.T) {
	h := New(Deps{Progress: newService()})

	data := progress.Default()
	data.TotalXP = 105
	data.Level = 2
	data.LabStats[labs.Rhythm] = progress.LabStats{LabID: labs.Rhythm, TotalSessions: 1, TotalTimeMs: 60_000, TotalXP: 105}
	h.Update(screen.SessionRecordedMsg{Result: progress.RecordResult{
		Admitted: true, Data: data, PreviousLevel: 1,
	}})

	assert.Contains(t, h.notice, "+105 XP")
	assert.Contains(t, h.notice, "Level up")
	assert.Equal(t, MascotCelebrating, h.mascot)
	assert.Equal(t, labs.Pitch, h.suggested)
}

func TestSessionRecordedRejectedOrFailed(t *testing.T) {
	h := New(Deps{Progress: newService()})

	h.Update(screen.SessionRecordedMsg{Result: progress.RecordResult{Admitted: false}})
	assert.Contains(t, h.notice, "Too short")

	h.Update(screen.SessionRecordedMsg{Err: errors.New("boom")})
	assert.Contains(t, h.notice, "boom")
	assert.Equal(t, 0, h.data.TotalXP)
}

func TestDegradedSaveIsShown(t *testing.T) {
	h := New(Deps{Progress: newService()})
	h.Update(screen.SessionRecordedMsg{Result: progress.RecordResult{
		Admitted:   true,
		Data:       progress.Default(),
		SaveStatus: progress.Status{Kind: progress.StatusWriteFailed},
	}})
	assert.Contains(t, h.notice, "not saved")
}

func TestCoachTip(t *testing.T) {
	h := New(Deps{Coach: coach.New(nil, coach.DefaultConfig())})
	_, cmd := h.Update(digit('9'))
	require.NotNil(t, cmd)
	assert.True(t, h.loading)

	h.Update(cmd())
	assert.False(t, h.loading)
	require.NotNil(t, h.tip)
	assert.Equal(t, coach.SourceFallback, h.tip.Source)
	assert.Contains(t, h.View(100, 60), "Rhythm Lab")
}

func TestMascotAlertWhenStreakAtRisk(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	data := progress.Default()
	data.Streak = 4

	data.LastActiveDate = "2026-03-09"
	assert.Equal(t, MascotAlert, mascotFor(data, now))

	data.LastActiveDate = "2026-03-10"
	assert.Equal(t, MascotIdle, mascotFor(data, now))

	data.LastActiveDate = ""
	assert.Equal(t, MascotIdle, mascotFor(data, now))
}
