package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewPlanShare(t *testing.T) {
	html, err := Preview(TemplatePlanShare)
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Lean week</h1>")
	assert.Contains(t, html, "Monday")
	assert.Contains(t, html, "Oatmeal")
	assert.Contains(t, html, "(2.50)")
	assert.Contains(t, html, "Nothing planned")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.ErrorContains(t, err, "failed to execute email template missing")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Breakfast", displayName("breakfast"))
	assert.Equal(t, "", displayName(""))
}
