package mind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMoodClockHoldsWithinThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewMoodClock(now)

	// The shift threshold is at least 30 minutes, so nothing moves before that.
	state := c.Current(now.Add(29 * time.Minute))
	require.Equal(t, MoodChill, state.Mood)
	require.Equal(t, EmotionPlayful, state.Emotion)
	require.Equal(t, now, state.ChangedAt)
}

func TestMoodClockShiftsFromDayPartPools(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewMoodClock(now)

	later := now.Add(2 * time.Hour) // 10:00, morning pool
	state := c.Current(later)
	require.Equal(t, later, state.ChangedAt)
	require.Contains(t, []Mood{MoodAwake, MoodChill, MoodHype}, state.Mood)
	require.Contains(t, []Emotion{EmotionExcited, EmotionConfident}, state.Emotion)
}

func TestMoodClockNeverMovesBackwards(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewMoodClock(now)

	c.Current(now.Add(2 * time.Hour))
	state := c.Current(now.Add(-5 * time.Hour))
	require.Equal(t, now.Add(2*time.Hour), state.ChangedAt)
}

func TestDayPartChoices(t *testing.T) {
	moods, _ := dayPartChoices(23)
	require.Contains(t, moods, MoodTipsy)

	moods, _ = dayPartChoices(0)
	require.Contains(t, moods, MoodTired)

	moods, emotions := dayPartChoices(19)
	require.Contains(t, moods, MoodHype)
	require.Contains(t, emotions, EmotionExcited)

	moods, _ = dayPartChoices(14)
	require.Equal(t, []Mood{MoodChill}, moods)
}
