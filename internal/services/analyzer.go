package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"document-analyzer/internal/config"
	"document-analyzer/internal/logger"
	"document-analyzer/internal/store"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// promptExcerptLen caps how much document text is embedded into a prompt.
const promptExcerptLen = 3000

// sampleLen caps the text excerpt shown in locally synthesized summaries.
const sampleLen = 200

// TextExtractor is the extraction step seen by the orchestrator.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// Completer issues a single model call against one candidate URL.
type Completer interface {
	Complete(ctx context.Context, candidateURL, prompt string) (string, error)
	Chat(ctx context.Context, candidateURL string, messages []openai.ChatCompletionMessage) (string, error)
}

// AnalysisResult is what an analyze operation hands back to the HTTP layer.
// DocumentID and DocumentName are set whenever extraction succeeded, even if
// every model call failed.
type AnalysisResult struct {
	Result       string
	DocumentID   string
	DocumentName string
}

// Analyzer coordinates extraction, document registration and the sequential
// candidate-endpoint attempt loop for both analysis and chat.
type Analyzer struct {
	extractor TextExtractor
	client    Completer
	docs      store.Store
	cfg       config.ModelConfig
}

func NewAnalyzer(extractor TextExtractor, client Completer, docs store.Store, cfg config.ModelConfig) *Analyzer {
	return &Analyzer{
		extractor: extractor,
		client:    client,
		docs:      docs,
		cfg:       cfg,
	}
}

// Analyze extracts text from the uploaded PDF, registers the document and
// asks the model runner for a summary. Model failures degrade to a locally
// synthesized summary; only extraction failures are returned as errors.
func (a *Analyzer) Analyze(ctx context.Context, filename string, data []byte) (*AnalysisResult, error) {
	text, err := a.extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	doc := a.docs.Put(filename, text)

	logger.WithFields(logrus.Fields{
		"documentId": doc.ID,
		"filename":   filename,
		"textLength": len(text),
	}).Info("Document extracted and registered")

	if a.cfg.Endpoint == "" {
		logger.Info("DMR_API_ENDPOINT not set, using local analysis")
		return &AnalysisResult{
			Result:       a.localSummary(filename, text),
			DocumentID:   doc.ID,
			DocumentName: filename,
		}, nil
	}

	prompt := buildAnalysisPrompt(filename, text)

	reply, err := a.tryCandidates(ctx, a.cfg.AnalyzeTimeout, func(ctx context.Context, candidateURL string) (string, error) {
		return a.client.Complete(ctx, candidateURL, prompt)
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"documentId": doc.ID,
			"error":      err.Error(),
		}).Warn("All model endpoints failed, returning fallback summary")
		return &AnalysisResult{
			Result:       a.fallbackSummary(filename, text, err),
			DocumentID:   doc.ID,
			DocumentName: filename,
		}, nil
	}

	return &AnalysisResult{
		Result:       reply,
		DocumentID:   doc.ID,
		DocumentName: filename,
	}, nil
}

// Chat answers a follow-up question about a previously analyzed document.
// Unlike Analyze it has no text-only fallback: if every candidate endpoint
// fails the aggregated error is returned.
func (a *Analyzer) Chat(ctx context.Context, documentID, message string) (string, error) {
	doc, ok := a.docs.Get(documentID)
	if !ok {
		return "", ErrDocumentNotFound
	}

	if a.cfg.Endpoint == "" {
		return fmt.Sprintf(
			"The model runner is not configured, so chat about %q is unavailable. "+
				"Set the DMR_API_ENDPOINT environment variable to enable it.",
			doc.Filename,
		), nil
	}

	messages := buildChatMessages(doc, message)

	return a.tryCandidates(ctx, a.cfg.ChatTimeout, func(ctx context.Context, candidateURL string) (string, error) {
		return a.client.Chat(ctx, candidateURL, messages)
	})
}

// tryCandidates runs one attempt per candidate URL, in order, stopping at
// the first success. Each attempt gets its own deadline and is awaited
// fully before the next candidate is tried.
func (a *Analyzer) tryCandidates(ctx context.Context, timeout time.Duration, attempt func(ctx context.Context, candidateURL string) (string, error)) (string, error) {
	candidates := ResolveCandidates(a.cfg.Endpoint)

	var attempts []error
	for _, candidateURL := range candidates {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		reply, err := attempt(attemptCtx, candidateURL)
		cancel()

		if err == nil {
			logger.WithFields(logrus.Fields{
				"url": candidateURL,
			}).Info("Model call succeeded")
			return reply, nil
		}

		logger.WithFields(logrus.Fields{
			"url":   candidateURL,
			"error": err.Error(),
		}).Warn("Model call failed, trying next candidate")
		attempts = append(attempts, err)
	}

	return "", &AttemptsError{Attempts: attempts}
}

func buildAnalysisPrompt(filename, text string) string {
	return fmt.Sprintf(`Analyze the following document and provide a concise summary:

Document Name: %s
Document Type: PDF
Document Content:

%s

Please provide:
1. A brief summary of the document (3-5 sentences)
2. Main topics or key points
3. Any action items or recommendations`, filename, excerpt(text, promptExcerptLen))
}

func buildChatMessages(doc store.Document, message string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf("You are a helpful assistant answering questions about the document %q.", doc.Filename),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: "Here is an excerpt of the document content:\n\n" + excerpt(doc.Text, promptExcerptLen),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: message,
		},
	}
}

func (a *Analyzer) localSummary(filename, text string) string {
	return fmt.Sprintf(
		"Analysis for %q (%d characters extracted):\n\n"+
			"This is a local analysis response. To enable model-based analysis, set the DMR_API_ENDPOINT environment variable.\n\n"+
			"Extracted text sample: %q",
		filename, len(text), excerpt(text, sampleLen),
	)
}

func (a *Analyzer) fallbackSummary(filename, text string, attemptErr error) string {
	return fmt.Sprintf(
		"Analysis for %q (%d characters extracted):\n\n"+
			"The document was processed, but the model runner could not be reached: %s\n\n"+
			"Extracted text sample: %q",
		filename, len(text), attemptErr.Error(), excerpt(text, sampleLen),
	)
}

func excerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	// Back off to a rune boundary so the cut never splits a multibyte
	// character.
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max] + "... (truncated)"
}
