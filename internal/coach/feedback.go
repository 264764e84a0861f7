// Package coach gives the learner short feedback inside a lab and a
// practice tip between sessions.
package coach

import (
	"math/rand/v2"

	"github.com/abhisek/musiclab/internal/rhythm"
)

// Performance is how well an attempt went.
type Performance string

const (
	Excellent        Performance = "excellent"
	Good             Performance = "good"
	NeedsImprovement Performance = "needs-improvement"
)

// FeedbackType controls how the UI presents feedback.
type FeedbackType string

const (
	Celebration FeedbackType = "celebration"
	Hint        FeedbackType = "hint"
	Correction  FeedbackType = "correction"
)

// Feedback is a single message shown after an attempt.
type Feedback struct {
	Type    FeedbackType
	Message string
}

var messageBank = map[Performance][]string{
	Excellent: {
		"Perfect timing! 🎯",
		"You're getting it! ✨",
		"That sounded great! 🎵",
		"Keep going! 🔥",
	},
	Good: {
		"Almost there! Try again",
		"Close! Listen carefully",
		"Good try! A little adjustment",
		"You're on the right track",
	},
	NeedsImprovement: {
		"Try a different approach",
		"Listen to the pattern",
		"Take your time",
		"Experiment a bit more",
	},
}

// Messages returns the feedback bank for p.
func Messages(p Performance) []string {
	return append([]string(nil), messageBank[p]...)
}

// TypeFor maps a performance to how it is presented.
func TypeFor(p Performance) FeedbackType {
	switch p {
	case Excellent:
		return Celebration
	case Good:
		return Hint
	default:
		return Correction
	}
}

// PerformanceFromAccuracy maps a graded rhythm tap to a performance.
func PerformanceFromAccuracy(acc rhythm.Accuracy) Performance {
	switch acc {
	case rhythm.Perfect:
		return Excellent
	case rhythm.Close:
		return Good
	default:
		return NeedsImprovement
	}
}

// Feedbacker picks feedback messages. It is not safe for concurrent use.
type Feedbacker struct {
	rng *rand.Rand
}

// NewFeedbacker picks messages with rng. A nil rng uses a
// randomly-seeded source.
func NewFeedbacker(rng *rand.Rand) *Feedbacker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Feedbacker{rng: rng}
}

// For returns a random message for p. Unknown performances are treated
// as needing improvement.
func (f *Feedbacker) For(p Performance) Feedback {
	bank, ok := messageBank[p]
	if !ok {
		p = NeedsImprovement
		bank = messageBank[p]
	}
	return Feedback{Type: TypeFor(p), Message: bank[f.rng.IntN(len(bank))]}
}
