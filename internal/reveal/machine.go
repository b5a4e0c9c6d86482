// Package reveal sequences a tarot reading: the card starts face down, flips once its image is
// ready, and the emotional content is then disclosed a viewport at a time.
package reveal

import (
	"github.com/ceotarot/ceotarot/internal/models"
	"strings"
	"unicode/utf8"
)

const (
	// AssumedLineHeight is the rendered height of one line of content in CSS pixels.
	AssumedLineHeight = 30
	// MinLinesPerStep is the least number of lines revealed by one continue action.
	MinLinesPerStep = 5

	highlightMinRunes = 20
)

// Phase of the card.
type Phase int

const (
	PhaseBack Phase = iota
	PhaseFlipped
)

func (p Phase) String() string {
	if p == PhaseFlipped {
		return "flipped"
	}
	return "back"
}

// Sound identifies an audio cue.
type Sound string

const (
	SoundFlip     Sound = "card-flip"
	SoundPageTurn Sound = "page-turn"
)

// Cue is called after a transition that has an audio cue. It must not block. Panics are swallowed
// so that a misbehaving cue never affects the state.
type Cue func(Sound)

// State is the serializable part of a reading. It is kept per visitor.
type State struct {
	ScenarioID        string
	Flipped           bool
	ImageReady        bool
	RevealedLineCount int
}

// Line is one line of the emotional content as it should be rendered.
type Line struct {
	Text string
	// Blank lines are spacing only. They are never masked and not counted.
	Blank bool
	// Index among the non-blank lines, -1 for blank lines.
	Index   int
	Visible bool
	// Highlight marks quotes and long sentence endings for emphasis.
	Highlight bool
	// Callout marks lines carrying the 💡 marker.
	Callout bool
}

// Machine drives a single reading of one scenario.
type Machine struct {
	state State
	lines []string
	total int
	cue   Cue
}

// New starts a fresh reading of s: face down, image not ready, nothing revealed.
func New(s models.Scenario, cue Cue) *Machine {
	lines := strings.Split(s.EmotionalContent.Content, "\n")
	total := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			total++
		}
	}
	return &Machine{
		state: State{ScenarioID: s.ID, Flipped: false, ImageReady: false, RevealedLineCount: 0},
		lines: lines,
		total: total,
		cue:   cue,
	}
}

// Resume continues a reading from a stored state. A state that belongs to another scenario is
// discarded and the reading starts over. Out of range counters are clamped.
func Resume(s models.Scenario, st State, cue Cue) *Machine {
	m := New(s, cue)
	if st.ScenarioID != s.ID {
		return m
	}
	m.state.ImageReady = st.ImageReady
	m.state.Flipped = st.Flipped && st.ImageReady
	if m.state.Flipped {
		m.state.RevealedLineCount = min(max(st.RevealedLineCount, 0), m.total)
	}
	return m
}

// State returns a copy of the current state for storage.
func (m *Machine) State() State {
	return m.state
}

// Phase returns whether the card is face down or flipped.
func (m *Machine) Phase() Phase {
	if m.state.Flipped {
		return PhaseFlipped
	}
	return PhaseBack
}

// TotalLines is the number of non-blank lines.
func (m *Machine) TotalLines() int {
	return m.total
}

// RevealedLines is the number of non-blank lines currently visible.
func (m *Machine) RevealedLines() int {
	return m.state.RevealedLineCount
}

// Done reports whether the whole content is revealed.
func (m *Machine) Done() bool {
	return m.state.Flipped && m.state.RevealedLineCount >= m.total
}

// MarkImageReady records that the card image finished loading. Failing to load counts too.
func (m *Machine) MarkImageReady() {
	m.state.ImageReady = true
}

// Flip turns the card face up. It is a no-op when the image is not ready or the card is already
// flipped. Reports whether the state changed.
func (m *Machine) Flip() bool {
	if m.state.Flipped || !m.state.ImageReady {
		return false
	}
	m.state.Flipped = true
	m.play(SoundFlip)
	return true
}

// StepSize is the number of lines one continue action reveals for the given viewport height.
func StepSize(viewportHeight int) int {
	return max(viewportHeight/AssumedLineHeight, MinLinesPerStep)
}

// Continue reveals the next page of lines. It is a no-op before the flip and after everything
// is revealed. Reports whether the state changed.
func (m *Machine) Continue(viewportHeight int) bool {
	if !m.state.Flipped || m.state.RevealedLineCount >= m.total {
		return false
	}
	m.state.RevealedLineCount = min(m.state.RevealedLineCount+StepSize(viewportHeight), m.total)
	m.play(SoundPageTurn)
	return true
}

// FirstNewLine returns the position in Lines of the first line revealed by a continue action
// that started at count previous, or -1 if there is none.
func (m *Machine) FirstNewLine(previous int) int {
	idx := 0
	for i, l := range m.lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if idx == previous {
			return i
		}
		idx++
	}
	return -1
}

// Lines returns every line of the content. Hidden lines are included and only flagged, so the
// full text is always present in the rendered page.
func (m *Machine) Lines() []Line {
	out := make([]Line, len(m.lines))
	idx := 0
	for i, text := range m.lines {
		if strings.TrimSpace(text) == "" {
			out[i] = Line{Text: text, Blank: true, Index: -1, Visible: true, Highlight: false, Callout: false}
			continue
		}
		out[i] = Line{
			Text:      text,
			Blank:     false,
			Index:     idx,
			Visible:   idx < m.state.RevealedLineCount,
			Highlight: isHighlight(text),
			Callout:   strings.Contains(text, "💡"),
		}
		idx++
	}
	return out
}

func isHighlight(text string) bool {
	emphasised := strings.Contains(text, `"`) || strings.HasSuffix(text, "니다.") || strings.HasSuffix(text, "요.")
	return emphasised && utf8.RuneCountInString(text) > highlightMinRunes
}

func (m *Machine) play(s Sound) {
	if m.cue == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	m.cue(s)
}
