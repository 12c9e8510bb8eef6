// Package reporter groups detected changes by client and renders them into
// notification bodies.
package reporter

import (
	"github.com/aleister1102/seotracker/internal/models"
)

// Aggregator collects change records while a cycle runs. Clients keep the
// order in which they were first seen and records keep their arrival order.
type Aggregator struct {
	index   map[string]int
	clients []models.ClientChanges
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]int)}
}

// Add appends records to their clients.
func (a *Aggregator) Add(records ...models.ChangeRecord) {
	for _, r := range records {
		i, ok := a.index[r.Client]
		if !ok {
			i = len(a.clients)
			a.index[r.Client] = i
			a.clients = append(a.clients, models.ClientChanges{Client: r.Client})
		}
		a.clients[i].Changes = append(a.clients[i].Changes, r)
	}
}

// Payload returns the grouped records collected so far.
func (a *Aggregator) Payload() models.ReportPayload {
	clients := make([]models.ClientChanges, len(a.clients))
	for i, c := range a.clients {
		clients[i] = models.ClientChanges{
			Client:  c.Client,
			Changes: append([]models.ChangeRecord(nil), c.Changes...),
		}
	}
	return models.ReportPayload{Clients: clients}
}

// Aggregate groups records in one call.
func Aggregate(records []models.ChangeRecord) models.ReportPayload {
	a := NewAggregator()
	a.Add(records...)
	return a.Payload()
}
