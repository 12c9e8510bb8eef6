package reporter

import (
	"strings"
	"testing"

	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.ChangeRecord {
	return []models.ChangeRecord{
		{Client: "Beta", URL: "https://beta.test", Field: models.FieldTitle, Old: "Old", New: "New"},
		{Client: "Acme", URL: "https://acme.test", Field: models.FieldStatus, Old: "200", New: "404"},
		{Client: "Beta", URL: "https://beta.test/about", Field: models.FieldH1, Old: "About", New: "About us"},
	}
}

func TestAggregate_GroupsInFirstSeenOrder(t *testing.T) {
	payload := Aggregate(sampleRecords())

	require.Len(t, payload.Clients, 2)
	assert.Equal(t, "Beta", payload.Clients[0].Client)
	assert.Equal(t, "Acme", payload.Clients[1].Client)
	require.Len(t, payload.Clients[0].Changes, 2)
	assert.Equal(t, "https://beta.test", payload.Clients[0].Changes[0].URL)
	assert.Equal(t, "https://beta.test/about", payload.Clients[0].Changes[1].URL)
	assert.Equal(t, 3, payload.TotalChanges())
}

func TestAggregate_Empty(t *testing.T) {
	payload := Aggregate(nil)
	assert.True(t, payload.IsEmpty())
	assert.Zero(t, payload.TotalChanges())
}

func TestAggregator_PayloadIsSnapshot(t *testing.T) {
	a := NewAggregator()
	a.Add(sampleRecords()[0])
	snapshot := a.Payload()

	a.Add(sampleRecords()[2])

	assert.Len(t, snapshot.Clients[0].Changes, 1)
	assert.Len(t, a.Payload().Clients[0].Changes, 2)
}

func TestRenderer_RenderHTML(t *testing.T) {
	r, err := NewRenderer(RendererConfig{ReportLink: "https://sheets.test/1"}, zerolog.Nop())
	require.NoError(t, err)

	records := sampleRecords()
	records[0].Old = `<b>Old</b> & "quoted"`
	records[0].Segments = []models.DiffSegment{
		{Operation: models.DiffDelete, Text: "Old"},
		{Operation: models.DiffInsert, Text: "New"},
	}

	html, err := r.RenderHTML(Aggregate(records))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<p>The following page changes were detected:</p>"))
	assert.Less(t, strings.Index(html, "<h2>Beta</h2>"), strings.Index(html, "<h2>Acme</h2>"))
	assert.Contains(t, html, "<del>&quot;&lt;b&gt;Old&lt;/b&gt; &amp; &#34;quoted&#34;&quot;</del>")
	assert.Contains(t, html, "<del>Old</del><ins>New</ins>")
	assert.Contains(t, html, "(Old: 200 &rarr; New: 404)")
	assert.Contains(t, html, `changed for <a href="https://acme.test">https://acme.test</a>`)
	assert.Contains(t, html, `changed for <a href="https://beta.test/about">https://beta.test/about</a>`)
	assert.Contains(t, html, `<a href="https://sheets.test/1">Target Page Tracker</a>`)
}

func TestRenderer_RenderHTML_UnsafeURLNotLinked(t *testing.T) {
	r, err := NewRenderer(RendererConfig{}, zerolog.Nop())
	require.NoError(t, err)

	html, err := r.RenderHTML(Aggregate([]models.ChangeRecord{
		{Client: "Acme", URL: "javascript:alert(1)", Field: models.FieldTitle, Old: "a", New: "b"},
	}))
	require.NoError(t, err)

	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, `href="#ZgotmplZ"`)
}

func TestRenderer_RenderText(t *testing.T) {
	r, err := NewRenderer(RendererConfig{}, zerolog.Nop())
	require.NoError(t, err)

	text, err := r.RenderText(Aggregate(sampleRecords()))
	require.NoError(t, err)

	assert.Contains(t, text, "## Beta\n- Title changed for https://beta.test\nOld: ~~\"Old\"~~ → New: \"New\"\n")
	assert.Contains(t, text, "## Acme\n- Status Code changed for https://acme.test (Old: 200 → New: 404)\n")
	assert.NotContains(t, text, "Target Page Tracker")
}

func TestRenderer_EmptyPayload(t *testing.T) {
	r, err := NewRenderer(RendererConfig{}, zerolog.Nop())
	require.NoError(t, err)

	_, err = r.RenderHTML(models.ReportPayload{})
	assert.ErrorIs(t, err, ErrEmptyReport)

	_, err = r.RenderText(models.ReportPayload{})
	assert.ErrorIs(t, err, ErrEmptyReport)
}
