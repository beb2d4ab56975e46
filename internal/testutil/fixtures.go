package testutil

import "github.com/hupe1980/supportmesh/core"

// LoginTicket is the canonical end-to-end ticket.
func LoginTicket() core.Ticket {
	return core.Ticket{
		Title:       "Cannot log in",
		Description: "I get an error when I try to log in to my account",
	}
}

// KnowledgeEntries returns a small knowledge base across two categories.
func KnowledgeEntries() []core.KnowledgeEntry {
	return []core.KnowledgeEntry{
		{
			Title:    "Password reset",
			Content:  "Use the 'Forgot password' link on the login page to reset your password.",
			Category: "Account Related",
			Tags:     []string{"login", "password"},
		},
		{
			Title:    "Refund policy",
			Content:  "Refunds are issued within 14 days of purchase through the billing portal.",
			Category: "Billing",
			Tags:     []string{"refund"},
		},
	}
}
