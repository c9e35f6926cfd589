package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const batchPollInterval = 30 * time.Second

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// doRetry reports whether err is a rate limit, which is worth one retry.
func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		log.Error("Rate limit hit! ", "error", err)
		return true
	}
	return false
}

func getInlinedBatchRequests(chunks []string) *genai.EmbedContentBatch {
	conf := genai.EmbedContentConfig{OutputDimensionality: &dimension}
	return &genai.EmbedContentBatch{
		Config:   &conf,
		Contents: getContent(chunks),
	}
}

func (c *client) pollForAnswer(ctx context.Context, batchJobName string, log *logger_i.Logger) (*genai.BatchJob, error) {
	ticker := time.NewTicker(batchPollInterval)
	defer ticker.Stop()
	log.Debug("pollForAnswer")
	for {
		select {
		case <-ctx.Done():
			log.Error("pollForAnswer cancelled", "error", ctx.Err())
			return nil, ctx.Err()

		case <-ticker.C:
			bJob, err := c.genAi.Batches.Get(ctx, batchJobName, nil)
			if err != nil {
				log.Error("Error getting batch job", "error", err)
				continue
			}

			switch bJob.State {
			case genai.JobStateSucceeded:
				log.Debug("batch job succeeded")
				return bJob, nil
			case genai.JobStateFailed, genai.JobStateCancelled, genai.JobStateExpired:
				return nil, fmt.Errorf("batch embedding job ended in state %s", bJob.State)
			}
			//all other states we wait for the job to end or the context to expire
		}
	}
}

func downloadAnswerFromClient(answer *genai.BatchJob, log *logger_i.Logger) ([][]float32, error) {
	if answer.Dest == nil || len(answer.Dest.InlinedEmbedContentResponses) == 0 {
		return nil, errors.New("batch embedding job returned no responses")
	}

	results := make([][]float32, 0, len(answer.Dest.InlinedEmbedContentResponses))
	for i, r := range answer.Dest.InlinedEmbedContentResponses {
		if r == nil || r.Error != nil || r.Response == nil || r.Response.Embedding == nil {
			log.Error("Error with a particular result in batch embedding", "index", i)
			return nil, fmt.Errorf("batch embedding result %d failed", i)
		}
		results = append(results, r.Response.Embedding.Values)
	}
	return results, nil
}
