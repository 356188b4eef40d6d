package vectorstore

import (
	"github.com/cloudwego/eino/schema"
)

// OnboardingCorpus returns the seed documentation set used by the demo entry
// point and the in-process index. Source and doc_type metadata mirror what
// the ingestion pipeline attaches to real chunks.
func OnboardingCorpus() []*schema.Document {
	return []*schema.Document{
		{
			ID:      "remote-work-001",
			Content: "Remote work policy: employees may work from home up to 3 days per week after completing their first month. Home office days must be coordinated with your team lead. Core collaboration hours are 10:00-15:00 regardless of location.",
			MetaData: map[string]any{
				"source":   "remote_work_policy.md",
				"doc_type": "policy",
			},
		},
		{
			ID:      "vacation-001",
			Content: "Vacation and leave: full-time employees receive 25 vacation days per year, accrued monthly. Requests go through the HR portal at least two weeks in advance. Unused days up to 5 may carry over into the next year.",
			MetaData: map[string]any{
				"source":   "vacation_policy.md",
				"doc_type": "policy",
			},
		},
		{
			ID:      "vpn-001",
			Content: "VPN access: install the company VPN client from the self-service portal and sign in with your corporate credentials. Multi-factor authentication is required. If the client fails to connect, restart it before opening an IT ticket.",
			MetaData: map[string]any{
				"source":   "vpn_setup_guide.md",
				"doc_type": "it_guide",
			},
		},
		{
			ID:      "equipment-001",
			Content: "Equipment: new hires receive a laptop, monitor, and headset on their first day. Additional peripherals can be ordered through the IT equipment portal with manager approval. Report hardware defects to the IT service desk within 14 days.",
			MetaData: map[string]any{
				"source":   "equipment_guide.md",
				"doc_type": "it_guide",
			},
		},
		{
			ID:      "benefits-001",
			Content: "Benefits overview: health insurance enrollment opens during your first two weeks. The company matches pension contributions up to 5% of gross salary. A wellness stipend of 50 per month covers gym memberships and related services.",
			MetaData: map[string]any{
				"source":   "benefits_overview.md",
				"doc_type": "policy",
			},
		},
		{
			ID:      "password-001",
			Content: "Account and password help: passwords expire every 90 days and must be reset through the identity portal. Locked accounts unlock automatically after 15 minutes, or immediately via the IT service desk. Never share credentials over chat or email.",
			MetaData: map[string]any{
				"source":   "account_security_guide.md",
				"doc_type": "it_guide",
			},
		},
	}
}
