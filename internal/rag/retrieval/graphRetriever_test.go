package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntities(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Ironclad|Nebula", []string{"Ironclad", "Nebula"}},
		{"Output: Acme", []string{"Acme"}},
		{"K-900 chips", []string{"K-900 chips"}},
		{"Entity1: Sarah, Entity2 = Apex", []string{"Sarah", "Apex"}},
		{"Global Horizon Bank\nChimera\n", []string{"Global Horizon Bank", "Chimera"}},
		{"unknown | A | b", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEntities(tt.raw))
		})
	}
}

func TestFuzzyQuery(t *testing.T) {
	tests := map[string]string{
		"Apex":                     "Apex~",
		"Global Horizon Bank":      "Global AND Horizon AND Bank~",
		"K-900 chips":              `K\-900 AND chips~`,
		"Project: Chimera":         `Project\: AND Chimera~`,
		"Research AND Development": "Research AND and AND Development~",
		"NOT Guilty":               "not AND Guilty~",
		"Salt OR":                  "Salt AND or~",
		"   ":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, fuzzyQuery(in), in)
	}
}

func TestGetContext_SingleEntityUsesNeighborhood(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "Acme", nil }}
	store := &mockGraphStore{
		OnLookup:       func(q string) (string, bool, error) { return "Acme Corp", true, nil },
		OnNeighborhood: func(id string) ([]string, error) { return []string{id + " -[SUED]-> Nebula"}, nil },
	}

	got, err := NewGraphRetriever(gen, store).GetContext(context.Background(), "What did Acme do?")

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp -[SUED]-> Nebula", got)
}

func TestGetContext_TwoEntitiesUsePaths(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "Ironclad|Nebula", nil }}
	var gotStart, gotEnd string
	store := &mockGraphStore{
		OnLookup: func(q string) (string, bool, error) { return q[:len(q)-1], true, nil },
		OnPaths: func(s, e string) ([]string, error) {
			gotStart, gotEnd = s, e
			return []string{"Ironclad -[SUED]-> Nebula", "Ironclad -[OWNS]-> X <-[FUNDED]- Nebula"}, nil
		},
	}

	got, err := NewGraphRetriever(gen, store).GetContext(context.Background(), "Why is Ironclad suing Nebula?")

	require.NoError(t, err)
	assert.Equal(t, "Ironclad", gotStart)
	assert.Equal(t, "Nebula", gotEnd)
	assert.Equal(t, "Ironclad -[SUED]-> Nebula\nIronclad -[OWNS]-> X <-[FUNDED]- Nebula", got)
}

func TestGetContext_UnresolvedIsEmpty(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "Nobody", nil }}
	store := &mockGraphStore{OnLookup: func(q string) (string, bool, error) { return "", false, nil }}

	got, err := NewGraphRetriever(gen, store).GetContext(context.Background(), "Who is nobody?")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetContext_CachesResolution(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "Apex|Ghost", nil }}
	store := &mockGraphStore{
		OnLookup: func(q string) (string, bool, error) {
			if q == "Apex~" {
				return "Apex", true, nil
			}
			return "", false, nil
		},
		OnNeighborhood: func(id string) ([]string, error) { return []string{"Apex -[HIRED]-> Sarah"}, nil },
	}
	g := NewGraphRetriever(gen, store)

	for range 3 {
		_, err := g.GetContext(context.Background(), "Who works at Apex?")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), store.lookups.Load(), "hits and misses are both cached")
}

func TestGetContext_FailedLookupSkipsEntity(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "Broken(|Apex", nil }}
	store := &mockGraphStore{
		OnLookup: func(q string) (string, bool, error) {
			if q == "Apex~" {
				return "Apex", true, nil
			}
			return "", false, errors.New("fulltext query parse error")
		},
		OnNeighborhood: func(id string) ([]string, error) { return []string{id + " -[HIRED]-> Sarah"}, nil },
	}

	got, err := NewGraphRetriever(gen, store).GetContext(context.Background(), "Who works at Apex?")

	require.NoError(t, err)
	assert.Equal(t, "Apex -[HIRED]-> Sarah", got)
}

func TestGetContext_ExtractionError(t *testing.T) {
	gen := &mockGenerator{OnGenerate: func(ctx context.Context, p string) (string, error) { return "", errors.New("503") }}

	_, err := NewGraphRetriever(gen, &mockGraphStore{}).GetContext(context.Background(), "q")
	assert.ErrorContains(t, err, "entity extraction failed")
}
