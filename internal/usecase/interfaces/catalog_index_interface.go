package interfaces

import (
	"context"

	"lia_agent/internal/domain/entities"
)

// ICatalogIndex is the read-only view of a tenant's menu. An external
// catalog sync owns writes; the agent only queries.

type ICatalogIndex interface {
	// SearchIndex returns the full menu snapshot handed to the order
	// interpreter for one turn.
	SearchIndex(ctx context.Context, tenantID string) ([]entities.MenuItem, error)

	// LookupByFingerprint resolves an exact normalized name. Zero-code
	// item when absent.
	LookupByFingerprint(ctx context.Context, tenantID, fingerprint string) (entities.MenuItem, error)

	// SearchFuzzy ranks entries by name similarity. Scope restricts the
	// item type ("product", "addition", or empty for both).
	SearchFuzzy(ctx context.Context, tenantID, name, scope string) ([]entities.MenuItem, error)

	// ModifiersOf lists the addition entries linked to a product.
	ModifiersOf(ctx context.Context, tenantID, productCode string) ([]entities.MenuItem, error)
}
