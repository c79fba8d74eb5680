package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLGeneratorGenerate(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "briefing.html")

	gen := NewHTMLGenerator(briefingFixture())
	require.NoError(t, gen.Generate(outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Portfolio Health Briefing</title>")
	assert.Contains(t, html, "Your portfolio has")
	assert.Contains(t, html, "Gamma")
	assert.Contains(t, html, `class="rag rag-red"`)
	assert.Contains(t, html, `class="badge severity-Critical"`)
	assert.Contains(t, html, "burning budget faster than it is delivering")
	assert.Contains(t, html, "URGENT: Gamma budget is critical")
	// The title func capitalises project statuses.
	assert.Contains(t, html, "In Progress")
}

func TestHTMLGeneratorRejectsTraversal(t *testing.T) {
	gen := NewHTMLGenerator(briefingFixture())
	err := gen.Generate("../outside.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output path")
}

func TestHTMLGeneratorMissingParentDir(t *testing.T) {
	gen := NewHTMLGenerator(briefingFixture())
	err := gen.Generate(filepath.Join(t.TempDir(), "missing", "briefing.html"))
	require.Error(t, err)
}
