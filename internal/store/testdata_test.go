package store

import (
	"time"

	"github.com/imrishuroy/go-leadflow/internal/leads"
)

func sampleLeads() []leads.Lead {
	created := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	contacted := created.Add(2 * time.Hour)
	return []leads.Lead{
		{
			ID:        "REQ-1777887000000-abc123def",
			Name:      "Jane",
			Email:     "jane@x.com",
			Company:   "Acme",
			Message:   "Need a CRM",
			Status:    leads.StatusPending,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:          "REQ-1777887060000-zz9zz9zz9",
			Name:        "Bob",
			Email:       "bob@y.org",
			Company:     "Globex",
			Message:     "Pricing?",
			Status:      leads.StatusContacted,
			Notes:       "called back",
			CreatedAt:   created.Add(time.Minute),
			UpdatedAt:   contacted,
			ContactedAt: &contacted,
		},
	}
}
