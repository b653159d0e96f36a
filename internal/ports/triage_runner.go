package ports

import "context"

// TriageRunner defines the interface for an interactive triage session
type TriageRunner interface {
	// Run processes unread email until the user stops or the inbox is empty
	Run(ctx context.Context) error
}
