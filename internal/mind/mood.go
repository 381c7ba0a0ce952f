package mind

import (
	"math/rand"
	"sync"
	"time"
)

// Mood change threshold is drawn fresh on every read from this interval.
const (
	moodShiftMin = 30 * time.Minute
	moodShiftMax = 60 * time.Minute
)

// MoodClock holds the process-wide mood/emotion pair. No external event can
// force a transition; the state only drifts on its own randomized timer.
// Readers always observe a consistent pair.
type MoodClock struct {
	mu    sync.Mutex
	state MoodState
}

func NewMoodClock(now time.Time) *MoodClock {
	return &MoodClock{state: MoodState{
		Mood:      MoodChill,
		Emotion:   EmotionPlayful,
		ChangedAt: now,
	}}
}

// Current returns the mood state at now, rolling a transition first when the
// randomized threshold has elapsed.
func (c *MoodClock) Current(now time.Time) MoodState {
	c.mu.Lock()
	defer c.mu.Unlock()

	threshold := moodShiftMin + time.Duration(rand.Int63n(int64(moodShiftMax-moodShiftMin)))
	if now.Sub(c.state.ChangedAt) > threshold && now.After(c.state.ChangedAt) {
		moods, emotions := dayPartChoices(now.Hour())
		c.state.Mood = moods[rand.Intn(len(moods))]
		c.state.Emotion = emotions[rand.Intn(len(emotions))]
		c.state.ChangedAt = now
	}
	return c.state
}

// dayPartChoices returns the mood and emotion pools for an hour of day.
// Four day-parts: late night, morning, evening, everything else.
func dayPartChoices(hour int) ([]Mood, []Emotion) {
	switch {
	case hour >= 22 || hour < 1:
		return []Mood{MoodTipsy, MoodTired, MoodChill},
			[]Emotion{EmotionPlayful, EmotionThoughtful}
	case hour >= 7 && hour < 12:
		return []Mood{MoodAwake, MoodChill, MoodHype},
			[]Emotion{EmotionExcited, EmotionConfident}
	case hour >= 18 && hour < 22:
		return []Mood{MoodHype, MoodChill},
			[]Emotion{EmotionExcited, EmotionPlayful, EmotionConfident}
	default:
		return []Mood{MoodChill},
			[]Emotion{EmotionThoughtful, EmotionPlayful}
	}
}
