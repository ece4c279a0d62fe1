package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageContent(t *testing.T) {
	assert.False(t, ValidateMessageContent("hello").HasErrors())

	assert.True(t, ValidateMessageContent("").HasErrors())
	assert.True(t, ValidateMessageContent("   ").HasErrors())
	assert.True(t, ValidateMessageContent(strings.Repeat("a", MaxContentLength+1)).HasErrors())
}

func TestValidateSlug(t *testing.T) {
	assert.False(t, ValidateSlug("general-chat-2").HasErrors())

	assert.True(t, ValidateSlug("").HasErrors())
	assert.True(t, ValidateSlug("Has Caps").HasErrors())
	assert.True(t, ValidateSlug("no_underscores").HasErrors())
}

func TestValidationErrorsError(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("content", "Message content is required")
	assert.Contains(t, errs.Error(), "content: Message content is required")
}
