package models

// ClientChanges is the ordered list of changes detected for one client.
type ClientChanges struct {
	Client  string         `json:"client"`
	Changes []ChangeRecord `json:"changes"`
}

// ReportPayload groups change records by client, keeping the order in which
// clients and their changes were first seen.
type ReportPayload struct {
	Clients []ClientChanges `json:"clients"`
}

// IsEmpty reports whether the payload carries no changes at all.
func (p ReportPayload) IsEmpty() bool {
	return len(p.Clients) == 0
}

// TotalChanges counts the change records across all clients.
func (p ReportPayload) TotalChanges() int {
	total := 0
	for _, c := range p.Clients {
		total += len(c.Changes)
	}
	return total
}

// Messages returns the plain-text messages of a client, or nil when the
// client has no changes.
func (p ReportPayload) Messages(client string) []string {
	for _, c := range p.Clients {
		if c.Client != client {
			continue
		}
		msgs := make([]string, 0, len(c.Changes))
		for _, change := range c.Changes {
			msgs = append(msgs, change.Message())
		}
		return msgs
	}
	return nil
}

// Notification is what the report step hands to a notifier. Report carries
// the structured changes for channels that format their own layout.
type Notification struct {
	Recipients []string
	Subject    string
	HTMLBody   string
	TextBody   string
	Report     ReportPayload
}
