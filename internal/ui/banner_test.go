package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/roster/internal/ui/components"
)

func TestRenderBannerIncludesSubtitleAndNoOSC(t *testing.T) {
	out := RenderBanner()
	assert.NotContains(t, out, "\x1b]")

	clean := components.SanitizeText(out)
	assert.Contains(t, clean, "Employee Directory")
	assert.Contains(t, clean, "|_| \\_\\")
	assert.Contains(t, clean, "─")
}
