package settings

import "context"

// System defines the public contract for settings operations.
type System interface {
	Handler() *Handler

	// Scanner returns the stored scanner thresholds, falling back to
	// DefaultScanner when no override exists.
	Scanner(ctx context.Context) (Scanner, error)
	// SaveScanner validates and stores scanner threshold overrides.
	// Requires the editor role.
	SaveScanner(ctx context.Context, s Scanner) (Scanner, error)
	// ResetScanner removes stored overrides, reverting to defaults.
	// Requires the editor role. Succeeds even when no override exists.
	ResetScanner(ctx context.Context) error
}
