package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

type rawPage struct {
	Number  int
	Content string
}

func extractPDF(logger *logger_i.Logger, path string) ([]rawPage, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {

		logger.Error("failed opening of pdf file", "error", err)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "page value is null!!")
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractdocxTxtRtf reads a .odt, .docx, .rtf or plaintext file as a single page
func extractdocxTxtRtf(logger *logger_i.Logger, path string) ([]rawPage, error) {

	text, err := cat.File(path)
	if err != nil {

		logger.Error("Error extracting content from doc", "error", err)
		return nil, fmt.Errorf("failed to extract docx: %w", err)
	}

	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

const pageExtractTimeout = 10 * time.Second

// protectExtract bounds GetPlainText, which can spin on malformed content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timed out")
	}
}
