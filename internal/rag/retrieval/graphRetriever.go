package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/rag/graphDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/patrickmn/go-cache"
)

const entityPrompt = `Task: Identify the key Graph Nodes (proper nouns) to search for in the database.

Rules:
1. Strip roles: if the question asks about a job title (e.g. "CEO of Apple"), extract ONLY the organisation ("Apple"). The graph will find the person.
2. Multi-hop: if the question asks about a connection between A and B, extract BOTH A and B.
3. Precise naming: extract exact names of projects, products or companies.

Examples:
Input: "Why is Ironclad suing Nebula?"
Output: Ironclad|Nebula

Input: "Who transported the K-900 chips?"
Output: K-900 chips

Input: "How is the Vice President of Global Horizon Bank connected to Chimera?"
Output: Global Horizon Bank|Chimera

Input: "Connection between Sarah and the Director of Apex."
Output: Sarah|Apex

Question: "%s"
Output (pipe separated):`

var (
	entityLabelPrefix = regexp.MustCompile(`(?i)(Output|Entity\d*)[:\s=]*`)
	entitySeparators  = regexp.MustCompile(`[|,\n]`)
	entityBlacklist   = []string{"output", "question", "answer", "unknown", "a", "b"}
)

// lucene query syntax characters
var luceneEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`,
	`^`, `\^`, `"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`,
)

var luceneKeywords = []string{"AND", "OR", "NOT", "TO"}

// GraphRetriever turns a question into a textual description of the matching subgraph.
type GraphRetriever struct {
	generator Generator
	store     graphDB.Store
	resolved  *cache.Cache
	logger    *logger_i.Logger
}

// Generator is the slice of an LLM provider entity extraction needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

func NewGraphRetriever(generator Generator, store graphDB.Store) *GraphRetriever {
	return &GraphRetriever{
		generator: generator,
		store:     store,
		resolved:  cache.New(config.EntityCacheTTL, 2*config.EntityCacheTTL),
		logger:    logger_i.NewLogger("Graph Retriever"),
	}
}

// GetContext returns "" when no entity of the question exists in the graph.
func (g *GraphRetriever) GetContext(ctx context.Context, question string) (string, error) {
	loggr := g.logger.WithTrace(ctx)

	entities, err := g.extractEntities(ctx, question)
	if err != nil {
		return "", err
	}
	if len(entities) == 0 {
		return "", nil
	}

	var ids []string
	for _, entity := range entities {
		id, ok, err := g.resolve(ctx, entity)
		if err != nil {
			loggr.Warn("Skipping entity", "entity", entity, "error", err)
			continue
		}
		if ok && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	loggr.Debug("Resolved entities", "entities", entities, "ids", ids)

	var lines []string
	switch {
	case len(ids) == 0:
		return "", nil
	case len(ids) == 1:
		lines, err = g.store.Neighborhood(ctx, ids[0], config.GraphNeighborhoodRows)
	default:
		lines, err = g.store.PathsBetween(ctx, ids[0], ids[1], config.GraphPathLimit)
	}
	if err != nil {
		return "", fmt.Errorf("graph traversal failed: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

func (g *GraphRetriever) extractEntities(ctx context.Context, question string) ([]string, error) {
	raw, err := g.generator.Generate(ctx, fmt.Sprintf(entityPrompt, question))
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}
	return parseEntities(raw), nil
}

func parseEntities(raw string) []string {
	clean := entityLabelPrefix.ReplaceAllString(strings.TrimSpace(raw), "")

	var entities []string
	for _, part := range entitySeparators.Split(clean, -1) {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(entityBlacklist, strings.ToLower(part)) {
			continue
		}
		entities = append(entities, part)
	}
	return entities
}

func (g *GraphRetriever) resolve(ctx context.Context, entity string) (string, bool, error) {
	key := strings.ToLower(entity)
	if cached, ok := g.resolved.Get(key); ok {
		id := cached.(string)
		return id, id != "", nil
	}

	id, found, err := g.store.LookupEntity(ctx, fuzzyQuery(entity))
	if err != nil {
		return "", false, fmt.Errorf("entity lookup for %q failed: %w", entity, err)
	}
	// misses are cached too so repeated questions skip the index
	g.resolved.SetDefault(key, id)
	return id, found, nil
}

// fuzzyQuery escapes entity for Lucene, requires every term and makes the last one fuzzy.
// Bare boolean keywords are lowercased so they match as words.
func fuzzyQuery(entity string) string {
	terms := strings.Fields(luceneEscaper.Replace(entity))
	if len(terms) == 0 {
		return ""
	}
	for i, term := range terms {
		if slices.Contains(luceneKeywords, term) {
			terms[i] = strings.ToLower(term)
		}
	}
	return strings.Join(terms, " AND ") + "~"
}
