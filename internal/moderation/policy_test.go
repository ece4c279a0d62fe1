package moderation

import (
	"testing"

	"github.com/inkverse/clubchat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPolicyEvaluate(t *testing.T) {
	p := NewPolicy([]string{"vl", "Badword"})

	t.Run("clean text allowed", func(t *testing.T) {
		d := p.Evaluate("hello there")
		assert.True(t, d.Allowed)
		assert.Empty(t, d.Reason)
	})

	t.Run("denylisted substring flagged", func(t *testing.T) {
		d := p.Evaluate("this is vl content")
		assert.False(t, d.Allowed)
		assert.Equal(t, domain.ReasonOffensiveLanguage, d.Reason)
	})

	t.Run("match is case insensitive", func(t *testing.T) {
		assert.False(t, p.Evaluate("VL").Allowed)
		assert.False(t, p.Evaluate("some BADWORD here").Allowed)
	})

	t.Run("empty and whitespace-only always allowed", func(t *testing.T) {
		assert.True(t, p.Evaluate("").Allowed)
		assert.True(t, p.Evaluate("   \t\n").Allowed)
	})

	t.Run("blank denylist entries ignored", func(t *testing.T) {
		p := NewPolicy([]string{"", "  ", "x"})
		assert.True(t, p.Evaluate("hello").Allowed)
		assert.False(t, p.Evaluate("box").Allowed)
	})
}
