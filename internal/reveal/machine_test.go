package reveal_test

import (
	"fmt"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/ceotarot/ceotarot/internal/reveal"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func scenarioWithLines(id string, n int) models.Scenario {
	lines := make([]string, 0, n*2)
	for i := range n {
		lines = append(lines, fmt.Sprintf("line %d", i))
		if i%3 == 0 {
			lines = append(lines, "", "   ")
		}
	}
	return models.Scenario{ //nolint:exhaustruct // only content matters here
		ID:               id,
		EmotionalContent: models.EmotionalContent{Title: "t", Content: strings.Join(lines, "\n")},
	}
}

func TestStepSize(t *testing.T) {
	tests := []struct {
		viewport int
		want     int
	}{
		{viewport: 0, want: 5},
		{viewport: 149, want: 5},
		{viewport: 150, want: 5},
		{viewport: 180, want: 6},
		{viewport: 800, want: 26},
		{viewport: -100, want: 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("viewport %d", tt.viewport), func(t *testing.T) {
			require.Equal(t, tt.want, reveal.StepSize(tt.viewport))
		})
	}
}

func TestMachine_flip(t *testing.T) {
	var sounds []reveal.Sound
	m := reveal.New(scenarioWithLines("a", 12), func(s reveal.Sound) { sounds = append(sounds, s) })

	require.Equal(t, reveal.PhaseBack, m.Phase())
	require.Equal(t, 12, m.TotalLines())
	require.Zero(t, m.RevealedLines())

	// Flipping before the image is ready does nothing.
	require.False(t, m.Flip())
	require.Equal(t, reveal.PhaseBack, m.Phase())

	// Continue before flip does nothing.
	require.False(t, m.Continue(800))
	require.Zero(t, m.RevealedLines())

	m.MarkImageReady()
	m.MarkImageReady()
	require.True(t, m.Flip())
	require.Equal(t, reveal.PhaseFlipped, m.Phase())

	// One way: flipping again is a no-op and there is no way back.
	require.False(t, m.Flip())
	require.Equal(t, reveal.PhaseFlipped, m.Phase())
	require.Equal(t, []reveal.Sound{reveal.SoundFlip}, sounds)
}

func TestMachine_continue(t *testing.T) {
	var sounds []reveal.Sound
	m := reveal.New(scenarioWithLines("a", 12), func(s reveal.Sound) { sounds = append(sounds, s) })
	m.MarkImageReady()
	require.True(t, m.Flip())

	previous := m.RevealedLines()
	steps := 0
	for m.Continue(0) {
		steps++
		require.Greater(t, m.RevealedLines(), previous, "count must strictly increase")
		require.LessOrEqual(t, m.RevealedLines(), m.TotalLines())
		previous = m.RevealedLines()
	}
	// 12 lines at 5 per step: 5, 10, 12.
	require.Equal(t, 3, steps)
	require.True(t, m.Done())
	require.Equal(t, 12, m.RevealedLines())

	// Idempotent at the ceiling.
	require.False(t, m.Continue(10_000))
	require.Equal(t, 12, m.RevealedLines())
	require.Len(t, sounds, 1+steps)
}

func TestMachine_lines(t *testing.T) {
	s := models.Scenario{ //nolint:exhaustruct // only content matters here
		ID: "lines",
		EmotionalContent: models.EmotionalContent{
			Title: "t",
			Content: strings.Join([]string{
				"첫 줄",
				"",
				`"매출은 분명히 늘었는데요." 라고 사장님은 조용히 말했습니다.`,
				"💡 현금은 이익보다 늦게 옵니다.",
				"짧습니다.",
				"여섯",
				"일곱",
			}, "\n"),
		},
	}
	m := reveal.New(s, nil)
	m.MarkImageReady()
	m.Flip()
	m.Continue(0)

	lines := m.Lines()
	require.Len(t, lines, 7, "blank lines are kept for rendering")

	require.True(t, lines[1].Blank)
	require.Equal(t, -1, lines[1].Index)
	require.True(t, lines[1].Visible)

	require.Equal(t, 0, lines[0].Index)
	require.True(t, lines[0].Visible)
	require.True(t, lines[2].Highlight)
	require.True(t, lines[3].Callout)
	require.False(t, lines[4].Highlight, "short lines are not highlighted")
	require.True(t, lines[5].Visible)
	require.Equal(t, 5, lines[6].Index)
	require.False(t, lines[6].Visible)
	require.Equal(t, "일곱", lines[6].Text, "hidden text is still present")

	require.Equal(t, 0, m.FirstNewLine(0))
	require.Equal(t, 6, m.FirstNewLine(5))
	require.Equal(t, -1, m.FirstNewLine(6))
}

func TestResume(t *testing.T) {
	a := scenarioWithLines("a", 12)
	b := scenarioWithLines("b", 4)

	m := reveal.New(a, nil)
	m.MarkImageReady()
	m.Flip()
	m.Continue(300)
	stored := m.State()
	require.Equal(t, 10, stored.RevealedLineCount)

	resumed := reveal.Resume(a, stored, nil)
	require.Equal(t, reveal.PhaseFlipped, resumed.Phase())
	require.Equal(t, 10, resumed.RevealedLines())

	// Another scenario always starts from the back with nothing revealed.
	fresh := reveal.Resume(b, stored, nil)
	require.Equal(t, reveal.PhaseBack, fresh.Phase())
	require.Zero(t, fresh.RevealedLines())
	require.False(t, fresh.State().ImageReady)
	require.Equal(t, "b", fresh.State().ScenarioID)

	// Tampered counters are clamped.
	clamped := reveal.Resume(b, reveal.State{ScenarioID: "b", Flipped: true, ImageReady: true, RevealedLineCount: 99}, nil)
	require.Equal(t, 4, clamped.RevealedLines())
	notFlipped := reveal.Resume(b, reveal.State{ScenarioID: "b", Flipped: true, ImageReady: false, RevealedLineCount: 3}, nil)
	require.Equal(t, reveal.PhaseBack, notFlipped.Phase())
	require.Zero(t, notFlipped.RevealedLines())
}

func TestMachine_cuePanicDoesNotBlockTransition(t *testing.T) {
	m := reveal.New(scenarioWithLines("a", 3), func(reveal.Sound) { panic("no audio device") })
	m.MarkImageReady()
	require.True(t, m.Flip())
	require.True(t, m.Continue(0))
	require.True(t, m.Done())
}
