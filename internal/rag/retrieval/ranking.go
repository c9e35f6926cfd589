package retrieval

import (
	"math"
	"sort"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
)

// maximalMarginalRelevance greedily picks k candidate indexes, trading similarity to the
// query (lambda) against similarity to what is already picked (1 - lambda).
func maximalMarginalRelevance(query []float32, candidates []vectorDB.ScoredChunk, k int, lambda float64) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	k = min(k, len(candidates))

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = cosine(query, c.Vector)
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(candidates))
	for len(picked) < k {
		best, bestScore := -1, math.Inf(-1)
		for i := range candidates {
			if used[i] {
				continue
			}
			redundancy := 0.0
			for _, p := range picked {
				redundancy = max(redundancy, cosine(candidates[i].Vector, candidates[p].Vector))
			}
			score := lambda*relevance[i] - (1-lambda)*redundancy
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		used[best] = true
		picked = append(picked, best)
	}
	return picked
}

func cosine(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// weightedRankFusion merges rankings with weighted reciprocal rank fusion:
// score(d) = sum over lists of weight / (c + rank). Duplicates keep the first copy seen,
// so the earliest list's similarity score wins.
func weightedRankFusion(lists [][]commonModels.ContextChunk, weights []float64, c float64, k int) []commonModels.ContextChunk {
	type fused struct {
		chunk commonModels.ContextChunk
		score float64
		order int
	}
	byKey := map[string]*fused{}

	for li, list := range lists {
		w := 1.0
		if li < len(weights) {
			w = weights[li]
		}
		for rank, chunk := range list {
			key := chunk.SourceId + "\x00" + chunk.Text
			f, ok := byKey[key]
			if !ok {
				f = &fused{chunk: chunk, order: len(byKey)}
				byKey[key] = f
			}
			f.score += w / (c + float64(rank+1))
		}
	}

	merged := make([]*fused, 0, len(byKey))
	for _, f := range byKey {
		merged = append(merged, f)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].order < merged[j].order
	})

	out := make([]commonModels.ContextChunk, 0, min(k, len(merged)))
	for _, f := range merged {
		if len(out) == k {
			break
		}
		out = append(out, f.chunk)
	}
	return out
}
