package lab

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/rhythm"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/theory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeRecorder struct {
	sessions []progress.LabSession
}

func (r *fakeRecorder) RecordSession(_ context.Context, s progress.LabSession) (progress.RecordResult, error) {
	r.sessions = append(r.sessions, s)
	return progress.RecordResult{Admitted: s.Admitted()}, nil
}

func newTestLab(t *testing.T, id labs.ID) (*Screen, *fakeClock, *fakeRecorder) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)}
	rec := &fakeRecorder{}
	s, err := New(id, Deps{
		Recorder:   rec,
		Feedbacker: coach.NewFeedbacker(rand.New(rand.NewPCG(1, 1))),
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	return s, clock, rec
}

func press(s *Screen, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "space":
			msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "tab":
			msg = tea.KeyPressMsg{Code: tea.KeyTab}
		case "up":
			msg = tea.KeyPressMsg{Code: tea.KeyUp}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		case "right":
			msg = tea.KeyPressMsg{Code: tea.KeyRight}
		default:
			msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
		}
		s.Update(msg)
	}
}

func TestNewUnknownLab(t *testing.T) {
	_, err := New("dance", Deps{})
	if !errors.Is(err, progress.ErrUnknownLab) {
		t.Fatalf("expected ErrUnknownLab, got %v", err)
	}
}

func TestEveryLabOpens(t *testing.T) {
	for _, id := range labs.IDs() {
		s, _, _ := newTestLab(t, id)
		if !strings.Contains(s.Title(), s.Lab().Name) {
			t.Errorf("%s: title %q missing lab name", id, s.Title())
		}
		if view := s.View(100, 40); view == "" {
			t.Errorf("%s: empty view", id)
		}
		if len(s.KeyHints()) < 2 {
			t.Errorf("%s: expected key hints", id)
		}
	}
}

func TestLeaveRecordsSession(t *testing.T) {
	s, clock, rec := newTestLab(t, labs.Rhythm)

	press(s, "enter")
	clock.Advance(rhythm.BeatInterval(rhythm.DefaultBPM))
	press(s, "space", "space")
	clock.Advance(2 * time.Minute)

	cmd := s.Leave()
	if cmd == nil {
		t.Fatal("expected a record command")
	}
	msg, ok := cmd().(screen.SessionRecordedMsg)
	if !ok {
		t.Fatalf("expected SessionRecordedMsg, got %T", cmd())
	}
	if msg.Err != nil || !msg.Result.Admitted {
		t.Fatalf("unexpected result: %+v", msg)
	}

	if len(rec.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(rec.sessions))
	}
	sess := rec.sessions[0]
	if sess.LabID != labs.Rhythm {
		t.Errorf("expected rhythm, got %s", sess.LabID)
	}
	if sess.ActivityCount != 3 {
		t.Errorf("expected 3 interactions, got %d", sess.ActivityCount)
	}
	wantMs := (rhythm.BeatInterval(rhythm.DefaultBPM) + 2*time.Minute).Milliseconds()
	if sess.DurationMs != wantMs {
		t.Errorf("expected %dms, got %d", wantMs, sess.DurationMs)
	}
	if sess.XPEarned != progress.XPForSession(wantMs, 3) {
		t.Errorf("unexpected XP %d", sess.XPEarned)
	}

	if s.Leave() != nil {
		t.Error("second Leave should not record again")
	}
}

func TestTapFeedback(t *testing.T) {
	s, clock, _ := newTestLab(t, labs.Rhythm)

	press(s, "space")
	if s.feedback.Type != coach.Hint {
		t.Errorf("tap before start should hint, got %+v", s.feedback)
	}
	if s.Tracker().Activity() != 0 {
		t.Error("tap before start should not count")
	}

	press(s, "enter")
	clock.Advance(rhythm.BeatInterval(rhythm.DefaultBPM))
	press(s, "space")
	if s.feedback.Type != coach.Celebration {
		t.Errorf("on-beat tap should celebrate, got %+v", s.feedback)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s, _, _ := newTestLab(t, labs.Pattern)
	_, cmd := s.Update(tickMsg{id: s.tickID + 100})
	if cmd != nil {
		t.Error("a tick from another screen must not restart the ticker")
	}
	_, cmd = s.Update(tickMsg{id: s.tickID})
	if cmd == nil {
		t.Error("own tick should schedule the next one")
	}
}

func TestPatternPlayback(t *testing.T) {
	s, clock, _ := newTestLab(t, labs.Pattern)
	a := s.activity.(*patternActivity)

	press(s, "p")
	if a.grid != theory.GridPresets[0].Grid {
		t.Fatal("expected first preset loaded")
	}
	press(s, "c", "space", "right", "space")
	if a.grid.Count() != 2 {
		t.Fatalf("expected 2 cells, got %d", a.grid.Count())
	}

	press(s, "enter")
	clock.Advance(3*theory.StepTime + time.Millisecond)
	s.Update(tickMsg{id: s.tickID})
	if a.step != 3 {
		t.Errorf("expected step 3, got %d", a.step)
	}
	clock.Advance(13 * theory.StepTime)
	s.Update(tickMsg{id: s.tickID})
	if a.step != 0 {
		t.Errorf("expected playhead to wrap to 0, got %d", a.step)
	}
	if s.Tracker().Activity() != 5 {
		t.Errorf("expected 5 interactions, got %d", s.Tracker().Activity())
	}
}

func TestPitchFindMode(t *testing.T) {
	s, _, _ := newTestLab(t, labs.Pitch)
	a := s.activity.(*pitchActivity)

	press(s, "n")
	if !a.finding {
		t.Fatal("expected find mode")
	}
	a.target = 64 // E4, bound to 'd'

	press(s, "a")
	if !strings.Contains(s.feedback.Message, "higher") {
		t.Errorf("expected a higher hint, got %q", s.feedback.Message)
	}
	press(s, "k")
	if !strings.Contains(s.feedback.Message, "lower") {
		t.Errorf("expected a lower hint, got %q", s.feedback.Message)
	}
	press(s, "d")
	if a.finding || a.found != 1 || s.feedback.Type != coach.Celebration {
		t.Errorf("expected a match, got finding=%v found=%d fb=%+v", a.finding, a.found, s.feedback)
	}

	press(s, "q")
	if s.Tracker().Activity() != 4 {
		t.Errorf("unbound keys should not count, got %d", s.Tracker().Activity())
	}
}

func TestSoundDesignClamps(t *testing.T) {
	s, _, _ := newTestLab(t, labs.SoundDesign)
	a := s.activity.(*soundActivity)

	for range 10 {
		press(s, "o")
	}
	if a.voice.Frequency != theory.MaxFrequency {
		t.Errorf("expected frequency clamped at %v, got %v", theory.MaxFrequency, a.voice.Frequency)
	}
	press(s, "3")
	if a.voice.Waveform != theory.Sawtooth {
		t.Errorf("expected sawtooth, got %s", a.voice.Waveform)
	}
	press(s, "p")
	if a.voice != theory.VoicePresets[0].Voice {
		t.Errorf("expected first preset, got %+v", a.voice)
	}
}

func TestHarmonyProgression(t *testing.T) {
	s, clock, _ := newTestLab(t, labs.Harmony)
	a := s.activity.(*harmonyActivity)

	press(s, "m")
	if a.progression.Names()[1] != "G" {
		t.Fatalf("expected happy progression, got %v", a.progression.Names())
	}
	press(s, "right", "space")
	if a.progression[1] != "vi" {
		t.Errorf("expected V to cycle to vi, got %s", a.progression[1])
	}

	press(s, "enter")
	if a.chord == nil || a.chord.Roman != "I" {
		t.Fatal("expected the first chord to sound")
	}
	clock.Advance(chordTime)
	s.Update(tickMsg{id: s.tickID})
	if a.chord.Roman != "vi" {
		t.Errorf("expected second chord, got %s", a.chord.Roman)
	}
	clock.Advance(3 * chordTime)
	s.Update(tickMsg{id: s.tickID})
	if a.playing {
		t.Error("playback should stop after the last chord")
	}
}

func TestCreativityRecordAndPlayback(t *testing.T) {
	s, clock, _ := newTestLab(t, labs.Creativity)
	a := s.activity.(*creativityActivity)

	press(s, "enter", "a")
	clock.Advance(200 * time.Millisecond)
	press(s, "s")
	clock.Advance(200 * time.Millisecond)
	press(s, "d", "enter")
	if a.take.Len() != 3 {
		t.Fatalf("expected 3 recorded notes, got %d", a.take.Len())
	}

	a.heard = nil
	press(s, "space")
	s.Update(tickMsg{id: s.tickID})
	if len(a.heard) != 1 {
		t.Fatalf("expected the first note at once, heard %d", len(a.heard))
	}
	clock.Advance(time.Second)
	s.Update(tickMsg{id: s.tickID})
	if len(a.heard) != 3 || a.playing {
		t.Errorf("expected playback to finish with 3 notes, heard %d playing=%v", len(a.heard), a.playing)
	}

	press(s, "tab")
	if theory.Instruments[a.instrument] != theory.Synth {
		t.Errorf("expected synth, got %s", theory.Instruments[a.instrument])
	}
}
