package neo4jDB

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/graphDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

const (
	lookupQuery = `CALL db.index.fulltext.queryNodes($index, $query) YIELD node, score
RETURN node.id AS id, score ORDER BY score DESC LIMIT 1`

	neighborhoodQuery = `MATCH p=(n)-[*1..2]-(m) WHERE n.id = $id RETURN p LIMIT $limit`

	pathsQuery = `MATCH p=(a)-[*1..4]-(b) WHERE a.id = $start AND b.id = $end RETURN p LIMIT $limit`
)

type Client struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *logger_i.Logger
}

var _ graphDB.Store = (*Client)(nil)

func NewNeo4jClient(ctx context.Context, uri string, user string, password string, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j unreachable at %s: %w", uri, err)
	}

	c := &Client{driver: driver, database: database, logger: logger_i.NewLogger("Neo4j")}
	go func() {
		<-ctx.Done()
		c.logger.Info("Shutting down Neo4j driver")
		if err := driver.Close(context.Background()); err != nil {
			c.logger.Error("could not close Neo4j driver", "error", err)
		}
	}()
	return c, nil
}

func (c *Client) EnsureIndexes(ctx context.Context) error {
	query := fmt.Sprintf("CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR (n:%s) ON EACH [n.id]",
		graphDB.EntityIndexName, strings.Join(graphDB.EntityLabels, "|"))
	_, err := neo4j.ExecuteQuery(ctx, c.driver, query, nil, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return fmt.Errorf("create %s: %w", graphDB.EntityIndexName, err)
	}
	return nil
}

func (c *Client) LookupEntity(ctx context.Context, luceneQuery string) (string, bool, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("graph_lookup", time.Since(start)) }()

	result, err := neo4j.ExecuteQuery(ctx, c.driver, lookupQuery,
		map[string]any{"index": graphDB.EntityIndexName, "query": luceneQuery},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return "", false, err
	}
	if len(result.Records) == 0 {
		return "", false, nil
	}

	id, isNil, err := neo4j.GetRecordValue[string](result.Records[0], "id")
	if err != nil || isNil {
		return "", false, err
	}
	return id, true, nil
}

func (c *Client) Neighborhood(ctx context.Context, id string, limit int) ([]string, error) {
	return c.queryPaths(ctx, neighborhoodQuery, map[string]any{"id": id, "limit": limit})
}

func (c *Client) PathsBetween(ctx context.Context, startId string, endId string, limit int) ([]string, error) {
	return c.queryPaths(ctx, pathsQuery, map[string]any{"start": startId, "end": endId, "limit": limit})
}

func (c *Client) queryPaths(ctx context.Context, query string, params map[string]any) ([]string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("graph_traversal", time.Since(start)) }()

	result, err := neo4j.ExecuteQuery(ctx, c.driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(result.Records))
	lines := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		path, _, err := neo4j.GetRecordValue[dbtype.Path](record, "p")
		if err != nil {
			c.logger.WithTrace(ctx).Warn("skipping record without path", "error", err)
			continue
		}
		line := FormatPath(path)
		if _, dup := seen[line]; dup || line == "" {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines, nil
}

func (c *Client) UpsertRelations(ctx context.Context, triples []commonModels.RelationTriple) error {
	if len(triples) == 0 {
		return nil
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, t := range triples {
			res, err := tx.Run(ctx, MergeStatement(t), map[string]any{"subject": t.Subject, "object": t.Object})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("graph write of %d relations failed: %w", len(triples), err)
	}
	return nil
}

// MergeStatement builds the MERGE for one sanitized triple. Labels and relation types cannot be
// parameters in Cypher, so they are interpolated and must only contain [A-Za-z0-9_].
func MergeStatement(t commonModels.RelationTriple) string {
	return fmt.Sprintf("MERGE (a:`%s` {id: $subject}) MERGE (b:`%s` {id: $object}) MERGE (a)-[:`%s`]->(b)",
		t.SubjectType, t.ObjectType, t.Relation)
}

// FormatPath renders a path as "A -[REL]-> B <-[REL2]- C", following relationship direction.
func FormatPath(p dbtype.Path) string {
	if len(p.Nodes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(nodeName(p.Nodes[0]))
	for i, rel := range p.Relationships {
		if i+1 >= len(p.Nodes) {
			break
		}
		from, to := p.Nodes[i], p.Nodes[i+1]
		if rel.StartElementId == from.ElementId || rel.StartElementId != to.ElementId {
			fmt.Fprintf(&sb, " -[%s]-> %s", rel.Type, nodeName(to))
		} else {
			fmt.Fprintf(&sb, " <-[%s]- %s", rel.Type, nodeName(to))
		}
	}
	return sb.String()
}

func nodeName(n dbtype.Node) string {
	if id, ok := n.Props["id"].(string); ok {
		return id
	}
	return n.ElementId
}
