package moderation

import (
	"strings"

	"github.com/inkverse/clubchat/internal/domain"
)

// Decision is the outcome of evaluating message text. Reason is set only
// when the text is flagged.
type Decision struct {
	Allowed bool
	Reason  string
}

// Policy flags messages by case-insensitive substring match against a
// configured denylist. It is pure: no state, no I/O.
type Policy struct {
	terms []string
}

func NewPolicy(terms []string) *Policy {
	p := &Policy{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			p.terms = append(p.terms, t)
		}
	}
	return p
}

func (p *Policy) Evaluate(text string) Decision {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Decision{Allowed: true}
	}
	for _, term := range p.terms {
		if strings.Contains(text, term) {
			return Decision{Allowed: false, Reason: domain.ReasonOffensiveLanguage}
		}
	}
	return Decision{Allowed: true}
}
