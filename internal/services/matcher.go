package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
)

// ErrMissingInput is returned when the resume or job text is empty after
// sanitizing. Handlers map it to a 400 response.
var ErrMissingInput = errors.New("missing resume or job text")

type MatchService interface {
	Match(ctx context.Context, resume, job string) (*MatchResult, error)
}

type MatchResult struct {
	Match      int
	QuickMatch int
	Overlap    []string
	Missing    []string
	Method     string
	Model      string
}

// Embedder is the narrow slice of the Gemini service the matcher needs.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	EmbedModel() string
}

type MatchOptions struct {
	MaxChars int
	MinScore int
	MaxScore int
	TermCap  int
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		MaxChars: 15000,
		MinScore: 3,
		MaxScore: 97,
		TermCap:  25,
	}
}

type matchService struct {
	embedder Embedder
	opts     MatchOptions
}

// NewMatchService builds the scorer. A nil embedder means no embedding
// credential is configured; the semantic score then falls back to a
// discounted lexical score.
func NewMatchService(embedder Embedder, opts MatchOptions) MatchService {
	if opts.MaxChars <= 0 {
		opts.MaxChars = 15000
	}
	if opts.TermCap <= 0 {
		opts.TermCap = 25
	}
	return &matchService{
		embedder: embedder,
		opts:     opts,
	}
}

// Match implements MatchService.
func (m *matchService) Match(ctx context.Context, resume, job string) (*MatchResult, error) {
	resumeText := sanitizeText(resume, m.opts.MaxChars)
	jobText := sanitizeText(job, m.opts.MaxChars)

	if resumeText == "" || jobText == "" {
		return nil, ErrMissingInput
	}

	quick := quickKeywordMatch(resumeText, jobText, m.opts)

	if m.embedder == nil {
		// Discounted lexical score stands in for the semantic one.
		return &MatchResult{
			Match:      int(math.Round(float64(quick.Score) * 0.9)),
			QuickMatch: quick.Score,
			Overlap:    quick.Overlap,
			Missing:    quick.Missing,
			Method:     "embedding-cosine",
			Model:      "text-embedding-004 (API key missing, used quick fallback)",
		}, nil
	}

	var wg sync.WaitGroup
	var resumeVec, jobVec []float32
	var resumeErr, jobErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		resumeVec, resumeErr = m.embedder.GenerateEmbedding(ctx, resumeText)
	}()
	go func() {
		defer wg.Done()
		jobVec, jobErr = m.embedder.GenerateEmbedding(ctx, jobText)
	}()
	wg.Wait()

	if resumeErr != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", resumeErr)
	}
	if jobErr != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", jobErr)
	}

	sim := cosineSimilarity(resumeVec, jobVec)
	sim = math.Min(math.Max(sim, 0), 1)

	return &MatchResult{
		Match:      int(math.Round(sim * 100)),
		QuickMatch: quick.Score,
		Overlap:    quick.Overlap,
		Missing:    quick.Missing,
		Method:     "embedding-cosine",
		Model:      m.embedder.EmbedModel(),
	}, nil
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tokenRe      = regexp.MustCompile(`[a-z0-9+#.-]+`)
)

// sanitizeText collapses whitespace and truncates to maxChars to keep token
// usage predictable.
func sanitizeText(text string, maxChars int) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}

// tokenize lowercases the text and keeps alphanumeric runs (plus + # . -)
// longer than one character.
func tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) > 1 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

type quickMatchResult struct {
	Score   int
	Overlap []string
	Missing []string
}

// quickKeywordMatch computes the lexical score: the share of job-description
// tokens also present in the resume. Overlap and missing partition the
// distinct job vocabulary in first-occurrence order; only the transport lists
// are capped, the score uses the full sets.
func quickKeywordMatch(resume, job string, opts MatchOptions) quickMatchResult {
	resumeTokens := tokenize(resume)
	jobTokens := tokenize(job)

	if len(jobTokens) == 0 {
		return quickMatchResult{Score: 0, Overlap: []string{}, Missing: []string{}}
	}

	resumeSet := make(map[string]struct{}, len(resumeTokens))
	for _, t := range resumeTokens {
		resumeSet[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(jobTokens))
	var overlap, missing []string
	overlapCount := 0

	for _, t := range jobTokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}

		if _, ok := resumeSet[t]; ok {
			overlapCount++
			if len(overlap) < opts.TermCap {
				overlap = append(overlap, t)
			}
		} else if len(missing) < opts.TermCap {
			missing = append(missing, t)
		}
	}

	score := int(math.Round(float64(overlapCount) / float64(len(jobTokens)) * 100))
	score = clampScore(score, opts.MinScore, opts.MaxScore)

	if overlap == nil {
		overlap = []string{}
	}
	if missing == nil {
		missing = []string{}
	}

	return quickMatchResult{Score: score, Overlap: overlap, Missing: missing}
}

// clampScore keeps the lexical score inside the configured bounds.
func clampScore(score, minScore, maxScore int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// cosineSimilarity is the dot product over the product of magnitudes,
// computed over the shorter of the two vectors. Zero when either magnitude
// is zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
