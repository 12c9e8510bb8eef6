package models

// Column indices of the tracking sheet (0-based).
const (
	ColClient = iota
	ColURL
	ColCurrentTitle
	ColPreviousTitle
	ColCurrentMeta
	ColPreviousMeta
	ColCurrentH1
	ColPreviousH1
	ColCurrentStatus
	ColPreviousStatus

	TrackedColumnCount
)

// TrackedColumnHeaders is the header row written to a freshly created sheet.
var TrackedColumnHeaders = []string{
	"Client",
	"URL",
	"Page Title",
	"Previous Page Title",
	"Meta Description",
	"Previous Meta Description",
	"H1",
	"Previous H1",
	"Status Code",
	"Previous Status Code",
}

// NotAvailable marks a field the page did not provide.
const NotAvailable = "N/A"

// TrackedRow is one tracked URL with its client label and the current and
// previous observation of every tracked field.
type TrackedRow struct {
	// Index is the 1-based sheet row the values came from.
	Index int

	Client string
	URL    string

	CurrentTitle   string
	PreviousTitle  string
	CurrentMeta    string
	PreviousMeta   string
	CurrentH1      string
	PreviousH1     string
	CurrentStatus  string
	PreviousStatus string
}

// PageFields holds the SEO fields extracted from a page body.
type PageFields struct {
	Title           string
	MetaDescription string
	H1              string
}

// Observation is everything learned about a URL in one check cycle.
type Observation struct {
	Fields PageFields
	Status StatusResult
}

// Rotate moves every current value into its previous slot and stores the
// observation as the new current values. It must run once per cycle.
func (r *TrackedRow) Rotate(obs Observation) {
	r.PreviousTitle = r.CurrentTitle
	r.PreviousMeta = r.CurrentMeta
	r.PreviousH1 = r.CurrentH1
	r.PreviousStatus = r.CurrentStatus

	r.CurrentTitle = obs.Fields.Title
	r.CurrentMeta = obs.Fields.MetaDescription
	r.CurrentH1 = obs.Fields.H1
	r.CurrentStatus = obs.Status.String()
}

// RowFromCells maps a sheet row onto a TrackedRow. Missing trailing cells are
// treated as empty.
func RowFromCells(index int, cells []string) TrackedRow {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	return TrackedRow{
		Index:          index,
		Client:         cell(ColClient),
		URL:            cell(ColURL),
		CurrentTitle:   cell(ColCurrentTitle),
		PreviousTitle:  cell(ColPreviousTitle),
		CurrentMeta:    cell(ColCurrentMeta),
		PreviousMeta:   cell(ColPreviousMeta),
		CurrentH1:      cell(ColCurrentH1),
		PreviousH1:     cell(ColPreviousH1),
		CurrentStatus:  cell(ColCurrentStatus),
		PreviousStatus: cell(ColPreviousStatus),
	}
}

// Cells flattens the row back into sheet column order.
func (r TrackedRow) Cells() []string {
	cells := make([]string, TrackedColumnCount)
	cells[ColClient] = r.Client
	cells[ColURL] = r.URL
	cells[ColCurrentTitle] = r.CurrentTitle
	cells[ColPreviousTitle] = r.PreviousTitle
	cells[ColCurrentMeta] = r.CurrentMeta
	cells[ColPreviousMeta] = r.PreviousMeta
	cells[ColCurrentH1] = r.CurrentH1
	cells[ColPreviousH1] = r.PreviousH1
	cells[ColCurrentStatus] = r.CurrentStatus
	cells[ColPreviousStatus] = r.PreviousStatus
	return cells
}
