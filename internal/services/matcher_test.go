package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedModel() string {
	return "stub-embedding-model"
}

func Test_Tokenize(t *testing.T) {
	var cases = []struct {
		input  string
		output []string
	}{
		{input: "I use Python and SQL daily", output: []string{"use", "python", "and", "sql", "daily"}},
		{input: "C++ and C# plus .NET-core", output: []string{"c++", "and", "c#", "plus", ".net-core"}},
		{input: "a b c go", output: []string{"go"}},
		{input: "", output: []string{}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.output, tokenize(c.input))
		})
	}
}

func Test_SanitizeText(t *testing.T) {
	assert.Equal(t, "one two three", sanitizeText("  one\n\ttwo   three \r\n", 100))
	assert.Equal(t, "abcde", sanitizeText("abcdefgh", 5))
	assert.Equal(t, "", sanitizeText("   \n\t  ", 100))
}

func Test_QuickKeywordMatch_ScoresOverlapRatio(t *testing.T) {
	resume := "I use Python and SQL daily"
	job := "Looking for Python and AWS skills"

	result := quickKeywordMatch(resume, job, DefaultMatchOptions())

	assert.Contains(t, result.Overlap, "python")
	assert.Contains(t, result.Missing, "aws")
	// 2 of 6 distinct-counted job tokens overlap ("python", "and").
	assert.Equal(t, 33, result.Score)
	assert.GreaterOrEqual(t, result.Score, 3)
	assert.LessOrEqual(t, result.Score, 97)
}

func Test_QuickKeywordMatch_EmptyJob(t *testing.T) {
	result := quickKeywordMatch("plenty of resume text", "a ! ?", DefaultMatchOptions())

	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Overlap)
	assert.Empty(t, result.Missing)
}

func Test_QuickKeywordMatch_Bounds(t *testing.T) {
	opts := DefaultMatchOptions()

	full := quickKeywordMatch("go developer", "go developer", opts)
	assert.Equal(t, 97, full.Score, "perfect overlap is clamped below 100")

	none := quickKeywordMatch("accountant ledger", "kernel driver firmware", opts)
	assert.Equal(t, 3, none.Score, "zero overlap is clamped above 0")
}

func Test_QuickKeywordMatch_Partition(t *testing.T) {
	resume := "go postgres docker linux"
	job := "go kubernetes postgres terraform go postgres"

	result := quickKeywordMatch(resume, job, DefaultMatchOptions())

	seen := make(map[string]int)
	for _, term := range result.Overlap {
		seen[term]++
	}
	for _, term := range result.Missing {
		seen[term]++
	}

	// Every distinct job token lands in exactly one of the two sets.
	for _, term := range []string{"go", "kubernetes", "postgres", "terraform"} {
		assert.Equal(t, 1, seen[term], "token %q", term)
	}
	assert.Len(t, seen, 4)
}

func Test_QuickKeywordMatch_FirstOccurrenceOrder(t *testing.T) {
	result := quickKeywordMatch("sql python", "python then sql then python", DefaultMatchOptions())

	assert.Equal(t, []string{"python", "sql"}, result.Overlap)
	assert.Equal(t, []string{"then"}, result.Missing)
}

func Test_QuickKeywordMatch_TermCap(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.TermCap = 2

	job := "alpha beta gamma delta epsilon"
	result := quickKeywordMatch("unrelated words", job, opts)

	assert.Len(t, result.Missing, 2, "transport list is capped")
	// Scoring still uses the full sets: 0 of 5 tokens overlap.
	assert.Equal(t, 3, result.Score)
}

func Test_CosineSimilarity(t *testing.T) {
	var cases = []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "zero_vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, cosineSimilarity(c.a, c.b), 1e-9)
		})
	}
}

func Test_Match_MissingInput(t *testing.T) {
	matcher := NewMatchService(nil, DefaultMatchOptions())

	_, err := matcher.Match(context.Background(), "", "some job")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = matcher.Match(context.Background(), "some resume", "   ")
	assert.ErrorIs(t, err, ErrMissingInput)
}

func Test_Match_QuickFallbackWithoutEmbedder(t *testing.T) {
	matcher := NewMatchService(nil, DefaultMatchOptions())

	result, err := matcher.Match(context.Background(),
		"I use Python and SQL daily",
		"Looking for Python and AWS skills",
	)
	require.NoError(t, err)

	assert.Equal(t, 33, result.QuickMatch)
	assert.Equal(t, 30, result.Match, "fallback semantic score is 90% of the quick score")
	assert.Contains(t, result.Model, "quick fallback")
	assert.Equal(t, "embedding-cosine", result.Method)
}

func Test_Match_SemanticScore(t *testing.T) {
	resume := "resume text"
	job := "job text"

	embedder := &stubEmbedder{vectors: map[string][]float32{
		resume: {1, 2, 3},
		job:    {1, 2, 3},
	}}
	matcher := NewMatchService(embedder, DefaultMatchOptions())

	result, err := matcher.Match(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Match, "self-similarity maps to 100")
	assert.Equal(t, "stub-embedding-model", result.Model)
	assert.Equal(t, 2, embedder.calls, "one embedding per text")
}

func Test_Match_OrthogonalEmbeddings(t *testing.T) {
	resume := "resume text"
	job := "job text"

	embedder := &stubEmbedder{vectors: map[string][]float32{
		resume: {1, 0, 0},
		job:    {0, 1, 0},
	}}
	matcher := NewMatchService(embedder, DefaultMatchOptions())

	result, err := matcher.Match(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Match)
}

func Test_Match_NegativeSimilarityClamped(t *testing.T) {
	resume := "resume text"
	job := "job text"

	embedder := &stubEmbedder{vectors: map[string][]float32{
		resume: {1, 0},
		job:    {-1, 0},
	}}
	matcher := NewMatchService(embedder, DefaultMatchOptions())

	result, err := matcher.Match(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Match, "similarity is clamped to [0,1] before scaling")
}

func Test_Match_EmbedderError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("provider down")}
	matcher := NewMatchService(embedder, DefaultMatchOptions())

	_, err := matcher.Match(context.Background(), "resume text", "job text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func Test_Match_Idempotent(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	matcher := NewMatchService(embedder, DefaultMatchOptions())

	first, err := matcher.Match(context.Background(), "go engineer", "go and kubernetes")
	require.NoError(t, err)
	second, err := matcher.Match(context.Background(), "go engineer", "go and kubernetes")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_Match_TruncatesLongInput(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.MaxChars = 50

	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	matcher := NewMatchService(embedder, opts)

	long := strings.Repeat("go developer ", 20)
	result, err := matcher.Match(context.Background(), long, long)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Match, "identical truncated texts embed identically")
}
