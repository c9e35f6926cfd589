package graphDB

import (
	"context"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
)

// EntityLabels are the node labels covered by the full-text entity index.
var EntityLabels = []string{"Person", "Organization", "Company", "Product", "Project", "Location", "Event", "Role", "Policy"}

const EntityIndexName = "entity_index"

type Store interface {
	EnsureIndexes(ctx context.Context) error

	// LookupEntity runs a full-text query against the entity index and returns the best node id.
	LookupEntity(ctx context.Context, luceneQuery string) (id string, found bool, err error)

	// Neighborhood returns formatted paths of up to two hops around the node.
	Neighborhood(ctx context.Context, id string, limit int) ([]string, error)
	PathsBetween(ctx context.Context, startId string, endId string, limit int) ([]string, error)

	// UpsertRelations merges all triples in one transaction. Triples must already be sanitized.
	UpsertRelations(ctx context.Context, triples []commonModels.RelationTriple) error
}
