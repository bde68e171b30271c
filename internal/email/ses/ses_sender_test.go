package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWelcome(t *testing.T) {
	msg := buildWelcome("Ana")

	assert.Equal(t, "Welcome to HearSay", msg.subject)
	assert.Contains(t, msg.text, "Hi Ana,")
	assert.Contains(t, msg.html, "<p>Hi Ana,</p>")
}

func TestBuildWelcome_EscapesAndDefaultsName(t *testing.T) {
	assert.Contains(t, buildWelcome("").text, "Hi there,")
	assert.Contains(t, buildWelcome("<b>x</b>").html, "&lt;b&gt;x&lt;/b&gt;")
}
