package validator

import (
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

const MaxContentLength = 4000

func ValidateMessageContent(content string) ValidationErrors {
	errs := make(ValidationErrors)

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		errs.Add("content", "Message content is required")
	} else if len(content) > MaxContentLength {
		errs.Add("content", "Message is too long")
	}

	return errs
}

func ValidateSlug(slug string) ValidationErrors {
	errs := make(ValidationErrors)

	slug = strings.TrimSpace(slug)
	if slug == "" {
		errs.Add("slug", "Slug is required")
		return errs
	}
	for _, ch := range slug {
		if ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '-' {
			continue
		}
		errs.Add("slug", "Slug can only contain lowercase letters, numbers and dashes")
		break
	}

	return errs
}
