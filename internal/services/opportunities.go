package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"pivotpath/pivot-api/internal/models"
)

type OpportunityService interface {
	Rank(ctx context.Context, resumeText string, limit int) ([]models.Opportunity, error)
}

// RoleProfile is one entry of the built-in pivot-role catalog. The catalog
// seeds the vector store at ingest time and doubles as the lexical fallback
// when no embedding credential or vector store is available.
type RoleProfile struct {
	ID       string
	Title    string
	Summary  string
	Keywords []string
}

func DefaultRoleCatalog() []RoleProfile {
	return []RoleProfile{
		{
			ID:    "ai-product-manager",
			Title: "AI Product Manager",
			Summary: "Owns discovery and delivery of LLM-powered product features. " +
				"Strong systems thinking, experiment design, and metrics; works with " +
				"engineering to ship retrieval and agent features.",
			Keywords: []string{"product", "llm", "metrics", "roadmap", "stakeholders", "experiments", "agile"},
		},
		{
			ID:    "ai-solutions-architect",
			Title: "AI Solutions Architect",
			Summary: "Designs cloud architectures that integrate model APIs, vector " +
				"stores, and data pipelines. Bridges customer requirements and platform " +
				"capabilities with reference implementations.",
			Keywords: []string{"architecture", "cloud", "aws", "apis", "integration", "design", "security"},
		},
		{
			ID:    "platform-engineer",
			Title: "Platform Engineer",
			Summary: "Builds internal platforms: CI/CD, infrastructure as code, " +
				"observability, and golden paths for product teams. Kubernetes and " +
				"Terraform heavy.",
			Keywords: []string{"kubernetes", "terraform", "ci", "cd", "infrastructure", "go", "docker", "observability"},
		},
		{
			ID:    "data-engineer",
			Title: "Data Engineer",
			Summary: "Owns batch and streaming pipelines, warehouse modeling, and " +
				"data quality. SQL, Python, orchestration tooling, and cost-aware " +
				"storage design.",
			Keywords: []string{"sql", "python", "etl", "pipelines", "spark", "warehouse", "airflow"},
		},
		{
			ID:    "developer-relations",
			Title: "Developer Relations (AI)",
			Summary: "Teaches developers how to build with model APIs through demos, " +
				"tutorials, and talks. Writing and community instincts matter as much " +
				"as engineering depth.",
			Keywords: []string{"writing", "demos", "community", "tutorials", "speaking", "content", "apis"},
		},
		{
			ID:    "security-engineer",
			Title: "Security Engineer",
			Summary: "Hardens services and pipelines: threat modeling, secrets " +
				"management, dependency auditing, and incident response for cloud " +
				"workloads.",
			Keywords: []string{"security", "threat", "compliance", "iam", "audit", "incident", "cloud"},
		},
	}
}

type opportunityService struct {
	embedder Embedder
	store    RoleStore
	catalog  []RoleProfile
	maxChars int
}

// NewOpportunityService ranks pivot roles for a resume. embedder and store
// may both be nil; ranking then degrades to lexical keyword overlap against
// the built-in catalog.
func NewOpportunityService(embedder Embedder, store RoleStore, catalog []RoleProfile, maxChars int) OpportunityService {
	if len(catalog) == 0 {
		catalog = DefaultRoleCatalog()
	}
	if maxChars <= 0 {
		maxChars = 15000
	}
	return &opportunityService{
		embedder: embedder,
		store:    store,
		catalog:  catalog,
		maxChars: maxChars,
	}
}

// Rank implements OpportunityService.
func (o *opportunityService) Rank(ctx context.Context, resumeText string, limit int) ([]models.Opportunity, error) {
	resumeText = sanitizeText(resumeText, o.maxChars)
	if resumeText == "" {
		return nil, ErrMissingInput
	}

	if limit <= 0 {
		limit = 3
	}
	if limit > len(o.catalog) {
		limit = len(o.catalog)
	}

	if o.embedder != nil && o.store != nil {
		opportunities, err := o.rankByEmbedding(ctx, resumeText, limit)
		if err != nil {
			// Vector search is best-effort; fall back to the lexical ranking.
			log.Printf("vector role search failed, using lexical ranking: %v", err)
		} else if len(opportunities) > 0 {
			return opportunities, nil
		}
	}

	return o.rankByKeywords(resumeText, limit), nil
}

func (o *opportunityService) rankByEmbedding(ctx context.Context, resumeText string, limit int) ([]models.Opportunity, error) {
	embedding, err := o.embedder.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	hits, err := o.store.SearchRoles(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}

	opportunities := make([]models.Opportunity, 0, len(hits))
	for _, hit := range hits {
		score := int(math.Round(float64(hit.Score) * 100))
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		opportunities = append(opportunities, models.Opportunity{
			Title:   hit.Title,
			Score:   score,
			Basis:   "embedding",
			Snippet: excerpt(hit.Text, 200),
		})
	}

	return opportunities, nil
}

func (o *opportunityService) rankByKeywords(resumeText string, limit int) []models.Opportunity {
	resumeSet := make(map[string]struct{})
	for _, t := range tokenize(resumeText) {
		resumeSet[t] = struct{}{}
	}

	opportunities := make([]models.Opportunity, 0, len(o.catalog))
	for _, role := range o.catalog {
		matched := 0
		for _, kw := range role.Keywords {
			if _, ok := resumeSet[strings.ToLower(kw)]; ok {
				matched++
			}
		}

		score := 0
		if len(role.Keywords) > 0 {
			score = int(math.Round(float64(matched) / float64(len(role.Keywords)) * 100))
		}

		opportunities = append(opportunities, models.Opportunity{
			Title:   role.Title,
			Score:   score,
			Basis:   "lexical",
			Snippet: excerpt(role.Summary, 200),
		})
	}

	// Stable order: score descending, title as tie-break.
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Score != opportunities[j].Score {
			return opportunities[i].Score > opportunities[j].Score
		}
		return opportunities[i].Title < opportunities[j].Title
	})

	if len(opportunities) > limit {
		opportunities = opportunities[:limit]
	}
	return opportunities
}
