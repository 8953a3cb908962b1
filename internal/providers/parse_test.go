package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfilePage = `<html><body><main>
<section>
  <h1 class="text-heading-xlarge">Jane Doe</h1>
  <div class="text-body-medium break-words">Staff Engineer at Acme</div>
  <span class="text-body-small inline t-black--light break-words">Lisbon, Portugal</span>
</section>
<section>
  <div id="experience"></div>
  <ul>
    <li class="artdeco-list__item">Staff Engineer
Acme
2021 - Present</li>
    <li class="artdeco-list__item">Engineer
Globex
Jan 2018 - Dec 2020</li>
  </ul>
</section>
<section>
  <div id="education"></div>
  <ul><li>BSc Computer Science
MIT</li></ul>
</section>
<section>
  <div id="skills"></div>
  <ul>
    <li><span aria-hidden="true">Go</span></li>
    <li><span aria-hidden="true">Go</span></li>
    <li><span aria-hidden="true">Distributed Systems</span></li>
  </ul>
</section>
</main></body></html>`

func TestParseProfileHTML(t *testing.T) {
	profile, err := parseProfileHTML(sampleProfilePage, "https://linkedin.com/in/jane-doe")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "Staff Engineer at Acme", profile.Headline)
	assert.Equal(t, "Lisbon, Portugal", profile.Location)
	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "Staff Engineer at Acme (2021 - Present)", profile.Experience[0])
	assert.Equal(t, "Engineer at Globex (Jan 2018 - Dec 2020)", profile.Experience[1])
	assert.Equal(t, []string{"BSc Computer Science at MIT"}, profile.Education)
	assert.Equal(t, []string{"Go", "Distributed Systems"}, profile.Skills)
	assert.Contains(t, profile.RawText, "Jane Doe")
}

func TestParseProfileHTML_SelectorsMissEverything(t *testing.T) {
	profile, err := parseProfileHTML("<html><body>wall of unstructured text about Jane</body></html>", "https://linkedin.com/in/jane-doe")
	require.NoError(t, err)

	assert.Empty(t, profile.Experience)
	assert.Contains(t, profile.RawText, "wall of unstructured text")
	// Raw text but no structured experience marks the profile partial.
	assert.True(t, profile.IsPartial())
}

func TestInformativeLines_DropsGlyphsAndDuplicates(t *testing.T) {
	lines := informativeLines("Staff Engineer\nStaff Engineer\n·\nAcme\n  \n2021 - Present")
	assert.Equal(t, []string{"Staff Engineer", "Acme", "2021 - Present"}, lines)
}
