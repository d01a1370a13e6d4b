package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBlank(t *testing.T) {
	assert.Equal(t, 0, Score(""))
	assert.Equal(t, 0, Score("   \n\t"))
}

func TestScore(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"A button lets users click to submit a form.", 77},
		{"Usability is defined as the quality of a user interface that is used by people.", 78},
		{"Design.", 55},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.text), tt.text)
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze("Usability is defined as the quality of a user interface that is used by people.")
	assert.InDelta(t, 92.5, a.Readability, 1e-6)
	assert.InDelta(t, 100, a.Clarity, 1e-6)
	assert.InDelta(t, 95, a.Jargon, 1e-6)
	assert.InDelta(t, 75, a.Structure, 1e-6)
	assert.InDelta(t, 90, a.Balance, 1e-6)
	assert.InDelta(t, 0, a.Voice, 1e-6)
}

func TestCountSyllables(t *testing.T) {
	tests := map[string]int{
		"the":       1,
		"design":    2,
		"usability": 5,
		"made":      1,
		"Button!":   2,
		"rhythm":    1,
	}
	for word, want := range tests {
		assert.Equal(t, want, countSyllables(word), word)
	}
}

func TestClarityPenalisesLongSentences(t *testing.T) {
	long := strings.Repeat("word ", 30) + "."
	assert.InDelta(t, 0, clarity(long), 1e-9)
	assert.InDelta(t, 100, clarity("Short and clear."), 1e-9)
}

func TestCounter(t *testing.T) {
	label, over := Counter("hello")
	assert.Equal(t, "5 / 155 characters", label)
	assert.False(t, over)

	label, over = Counter(strings.Repeat("é", 156))
	assert.Equal(t, "156 / 155 characters", label)
	assert.True(t, over)
}

func TestBand(t *testing.T) {
	assert.Equal(t, "low", Band(0))
	assert.Equal(t, "low", Band(49))
	assert.Equal(t, "medium", Band(50))
	assert.Equal(t, "medium", Band(69))
	assert.Equal(t, "good", Band(70))
	assert.Equal(t, "good", Band(100))
}
