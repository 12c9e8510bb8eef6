package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/aleister1102/seotracker/internal/differ"
	"github.com/aleister1102/seotracker/internal/models"
	"github.com/aleister1102/seotracker/internal/reporter"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySheet struct {
	rows    []models.TrackedRow
	saved   []models.TrackedRow
	saves   int
	loadErr error
	saveErr error
}

func (m *memorySheet) Load(ctx context.Context) ([]models.TrackedRow, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]models.TrackedRow(nil), m.rows...), nil
}

func (m *memorySheet) Save(ctx context.Context, rows []models.TrackedRow) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]models.TrackedRow(nil), rows...)
	return nil
}

type fakeExtractor struct {
	pages map[string]models.PageFields
	calls []string
	// cancel is invoked when cancelOn is fetched.
	cancel   context.CancelFunc
	cancelOn string
}

func (f *fakeExtractor) ExtractFromURL(ctx context.Context, url string) (*models.PageFields, error) {
	f.calls = append(f.calls, url)
	if f.cancel != nil && url == f.cancelOn {
		f.cancel()
	}
	fields, ok := f.pages[url]
	if !ok {
		return nil, errors.New("fetch failed")
	}
	return &fields, nil
}

type fakeChecker struct {
	statuses map[string]models.StatusResult
	calls    []string
	// cancel is invoked on every call when set.
	cancel context.CancelFunc
}

func (f *fakeChecker) CheckStatus(ctx context.Context, url string) models.StatusResult {
	f.calls = append(f.calls, url)
	if f.cancel != nil {
		f.cancel()
		return models.StatusFailure(models.StatusUnclassified, "context canceled")
	}
	if s, ok := f.statuses[url]; ok {
		return s
	}
	return models.StatusCode(200)
}

type fakeNotifier struct {
	sent []models.Notification
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, n models.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

func stableRow(index int, client, url string) models.TrackedRow {
	return models.TrackedRow{
		Index:          index,
		Client:         client,
		URL:            url,
		CurrentTitle:   "Home",
		PreviousTitle:  "Home",
		CurrentMeta:    "Widgets",
		PreviousMeta:   "Widgets",
		CurrentH1:      "Welcome",
		PreviousH1:     "Welcome",
		CurrentStatus:  "200",
		PreviousStatus: "200",
	}
}

func stablePage() models.PageFields {
	return models.PageFields{Title: "Home", MetaDescription: "Widgets", H1: "Welcome"}
}

func newTracker(t *testing.T, sheet *memorySheet, ext *fakeExtractor, chk *fakeChecker, n *fakeNotifier) *Tracker {
	t.Helper()
	renderer, err := reporter.NewRenderer(reporter.RendererConfig{}, zerolog.Nop())
	require.NoError(t, err)
	detector := differ.NewChangeDetector(differ.NewTextDiffer(differ.DefaultDiffConfig()), zerolog.Nop())
	return New(sheet, ext, chk, detector, renderer, n, Options{Recipients: []string{"seo@acme.test"}}, zerolog.Nop())
}

func TestRunCycle_DetectsAndNotifies(t *testing.T) {
	sheet := &memorySheet{rows: []models.TrackedRow{
		stableRow(2, "Acme", "https://acme.test"),
		stableRow(3, "Beta", "https://beta.test"),
	}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{
		"https://acme.test": {Title: "New Home", MetaDescription: "Widgets", H1: "Welcome"},
		"https://beta.test": stablePage(),
	}}
	chk := &fakeChecker{statuses: map[string]models.StatusResult{
		"https://beta.test": models.StatusCode(404),
	}}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, chk, n).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowsTotal)
	assert.Equal(t, 2, result.RowsChecked)
	assert.Zero(t, result.RowsSkipped)
	assert.Equal(t, 2, result.Changes)
	assert.True(t, result.Notified)
	assert.Equal(t, 1, sheet.saves)

	acme := sheet.saved[0]
	assert.Equal(t, "Home", acme.PreviousTitle)
	assert.Equal(t, "New Home", acme.CurrentTitle)

	beta := sheet.saved[1]
	assert.Equal(t, "200", beta.PreviousStatus)
	assert.Equal(t, "404", beta.CurrentStatus)

	require.Len(t, n.sent, 1)
	sent := n.sent[0]
	assert.Equal(t, "!!Changes to Target Pages Found!!", sent.Subject)
	assert.Equal(t, []string{"seo@acme.test"}, sent.Recipients)
	assert.Contains(t, sent.HTMLBody, "<h2>Acme</h2>")
	assert.Contains(t, sent.TextBody, "Status Code changed for https://beta.test (Old: 200 → New: 404)")
	assert.Equal(t, []string{"Acme", "Beta"}, []string{sent.Report.Clients[0].Client, sent.Report.Clients[1].Client})
}

func TestRunCycle_NoChangesNoNotification(t *testing.T) {
	sheet := &memorySheet{rows: []models.TrackedRow{stableRow(2, "Acme", "https://acme.test")}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{"https://acme.test": stablePage()}}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, &fakeChecker{}, n).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Changes)
	assert.True(t, result.Report.IsEmpty())
	assert.False(t, result.Notified)
	assert.Empty(t, n.sent)
	assert.Equal(t, 1, sheet.saves)
}

func TestRunCycle_FetchFailureLeavesRowUntouched(t *testing.T) {
	original := stableRow(2, "Acme", "https://down.test")
	original.PreviousTitle = "Older"
	sheet := &memorySheet{rows: []models.TrackedRow{original}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{}}
	chk := &fakeChecker{}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, chk, n).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowsSkipped)
	assert.Zero(t, result.RowsChecked)
	assert.Equal(t, original, sheet.saved[0])
	assert.Equal(t, []string{"https://down.test"}, chk.calls)
	assert.Empty(t, n.sent)
}

func TestRunCycle_EmptyURLRowsSkipped(t *testing.T) {
	blank := models.TrackedRow{Index: 2, Client: "Acme", CurrentTitle: "keep"}
	sheet := &memorySheet{rows: []models.TrackedRow{blank}}
	ext := &fakeExtractor{}
	chk := &fakeChecker{}

	result, err := newTracker(t, sheet, ext, chk, &fakeNotifier{}).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowsSkipped)
	assert.Empty(t, ext.calls)
	assert.Empty(t, chk.calls)
	assert.Equal(t, blank, sheet.saved[0])
}

func TestRunCycle_NotifierFailureDoesNotFailCycle(t *testing.T) {
	sheet := &memorySheet{rows: []models.TrackedRow{stableRow(2, "Acme", "https://acme.test")}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{
		"https://acme.test": {Title: "Changed", MetaDescription: "Widgets", H1: "Welcome"},
	}}
	n := &fakeNotifier{err: errors.New("smtp down")}

	result, err := newTracker(t, sheet, ext, &fakeChecker{}, n).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changes)
	assert.False(t, result.Notified)
	assert.Len(t, n.sent, 1)
}

func TestRunCycle_NilNotifier(t *testing.T) {
	sheet := &memorySheet{rows: []models.TrackedRow{stableRow(2, "Acme", "https://acme.test")}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{
		"https://acme.test": {Title: "Changed", MetaDescription: "Widgets", H1: "Welcome"},
	}}

	tr := New(sheet, ext, &fakeChecker{}, differ.NewChangeDetector(nil, zerolog.Nop()), nil, nil, Options{}, zerolog.Nop())
	result, err := tr.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changes)
	assert.False(t, result.Notified)
}

func TestRunCycle_LoadError(t *testing.T) {
	sheet := &memorySheet{loadErr: errors.New("locked")}

	_, err := newTracker(t, sheet, &fakeExtractor{}, &fakeChecker{}, &fakeNotifier{}).RunCycle(context.Background())
	require.Error(t, err)
	assert.Zero(t, sheet.saves)
}

func TestRunCycle_SaveErrorSkipsNotification(t *testing.T) {
	sheet := &memorySheet{
		rows:    []models.TrackedRow{stableRow(2, "Acme", "https://acme.test")},
		saveErr: errors.New("disk full"),
	}
	ext := &fakeExtractor{pages: map[string]models.PageFields{
		"https://acme.test": {Title: "Changed", MetaDescription: "Widgets", H1: "Welcome"},
	}}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, &fakeChecker{}, n).RunCycle(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Empty(t, n.sent)
}

func TestRunCycle_CancellationStillSaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := models.PageFields{Title: "Changed", MetaDescription: "Widgets", H1: "Welcome"}
	sheet := &memorySheet{rows: []models.TrackedRow{
		stableRow(2, "Acme", "https://acme.test"),
		stableRow(3, "Beta", "https://beta.test"),
		stableRow(4, "Gamma", "https://gamma.test"),
	}}
	ext := &fakeExtractor{
		pages: map[string]models.PageFields{
			"https://acme.test":  changed,
			"https://beta.test":  changed,
			"https://gamma.test": changed,
		},
		cancel:   cancel,
		cancelOn: "https://beta.test",
	}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, &fakeChecker{}, n).RunCycle(ctx)
	require.NoError(t, err)

	assert.True(t, result.Interrupted)
	assert.Equal(t, 1, result.RowsChecked)
	assert.Equal(t, []string{"https://acme.test", "https://beta.test"}, ext.calls)
	assert.Equal(t, 1, sheet.saves)
	assert.Equal(t, "Changed", sheet.saved[0].CurrentTitle)
	assert.Equal(t, "Home", sheet.saved[1].CurrentTitle)
	assert.Equal(t, "Home", sheet.saved[2].CurrentTitle)
	require.Len(t, n.sent, 1)
	assert.Equal(t, 1, n.sent[0].Report.TotalChanges())
}

func TestRunCycle_CancelledDuringStatusCheckLeavesRowUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheet := &memorySheet{rows: []models.TrackedRow{stableRow(2, "Acme", "https://acme.test")}}
	ext := &fakeExtractor{pages: map[string]models.PageFields{"https://acme.test": stablePage()}}
	chk := &fakeChecker{cancel: cancel}
	n := &fakeNotifier{}

	result, err := newTracker(t, sheet, ext, chk, n).RunCycle(ctx)
	require.NoError(t, err)

	assert.True(t, result.Interrupted)
	assert.Zero(t, result.RowsChecked)
	assert.Equal(t, 1, result.RowsSkipped)
	assert.Zero(t, result.Changes)
	require.Len(t, sheet.saved, 1)
	assert.Equal(t, stableRow(2, "Acme", "https://acme.test"), sheet.saved[0])
	assert.Empty(t, n.sent)
}
