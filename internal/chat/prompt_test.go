package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt_EmotionDirectives(t *testing.T) {
	tests := []struct {
		emotion string
		want    string
	}{
		{EmotionSad, "üzgün görünüyor"},
		{EmotionHappy, "mutlu görünüyor"},
		{EmotionConfused, "kafası karışık görünüyor"},
		{EmotionAngry, "sinirli görünüyor"},
	}

	directives := []string{"üzgün görünüyor", "mutlu görünüyor", "kafası karışık görünüyor", "sinirli görünüyor"}

	for _, tt := range tests {
		t.Run(tt.emotion, func(t *testing.T) {
			p := SystemPrompt(Persona{Name: "Ali", Emotion: tt.emotion, Now: fixedNow})
			for _, d := range directives {
				if d == tt.want {
					assert.Contains(t, p, d)
				} else {
					assert.NotContains(t, p, d)
				}
			}
		})
	}
}

func TestSystemPrompt_NoDirectiveForNeutralOrUnknown(t *testing.T) {
	for _, e := range []string{"", EmotionNeutral, "ecstatic"} {
		p := SystemPrompt(Persona{Name: "Ali", Emotion: e, Now: fixedNow})
		assert.NotContains(t, p, "görünüyor", "emotion %q", e)
	}
}

func TestSystemPrompt_Interests(t *testing.T) {
	p := SystemPrompt(Persona{Name: "Ali", Interests: []string{" futbol ", "", "satranç"}, Now: fixedNow})
	assert.Contains(t, p, "ilgi alanları: futbol, satranç.")

	p = SystemPrompt(Persona{Name: "Ali", Now: fixedNow})
	assert.Contains(t, p, "ilgi alanları: çeşitli konular.")
}

func TestSystemPrompt_DateTimeAndTools(t *testing.T) {
	now := time.Date(2024, 12, 29, 23, 5, 0, 0, time.UTC)
	p := SystemPrompt(Persona{Name: "Ali", Now: now})

	assert.Contains(t, p, "Bugün 29.12.2024 Pazar, saat 23:05.")
	assert.Contains(t, p, "create_event")
	assert.Contains(t, p, "web_search")
	assert.False(t, strings.Contains(p, "\n\n\n"))
}
