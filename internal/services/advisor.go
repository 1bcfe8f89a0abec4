package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pivotpath/pivot-api/internal/models"
)

// TextGenerator is the slice of the Gemini service the advisor needs; a nil
// generator switches every operation to its deterministic template fallback.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type AdvisorService interface {
	Analyze(resumeText string) *models.AnalyzeResponse
	Explain(ctx context.Context, req *models.ExplainRequest) (string, error)
	Rewrite(ctx context.Context, req *models.RewriteRequest) ([]string, error)
}

type advisorService struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
}

func NewAdvisorService(generator TextGenerator) AdvisorService {
	return &advisorService{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
	}
}

// Analyze implements AdvisorService. The analysis is deterministic: a seed
// derived from the resume length varies the shape of an otherwise templated
// report, mirroring what the product ships before a real model is wired in.
func (a *advisorService) Analyze(resumeText string) *models.AnalyzeResponse {
	length := len(resumeText)
	if length == 0 {
		length = 180
	}

	seed := length % 100
	if seed < 60 {
		seed = 60
	}
	if seed > 92 {
		seed = 92
	}

	baseSkills := []string{
		"JavaScript",
		"React",
		"Node.js",
		"SQL",
		"System Design",
		"APIs",
		"Cloud Architecture",
		"Leadership",
	}
	skills := baseSkills[:5+(seed/10)%3]

	baseJobs := []string{
		"Solutions Architect",
		"AI Product Manager",
		"Platform Engineer",
		"Security Engineer",
		"Data Engineer",
	}
	jobs := baseJobs[:3+seed%2]

	pivotRoles := make([]models.PivotRole, 0, len(jobs))
	for _, job := range jobs {
		pivotRoles = append(pivotRoles, models.PivotRole{Title: job})
	}

	return &models.AnalyzeResponse{
		AutomationRisk:  seed - 20,
		Skills:          skills,
		Jobs:            jobs,
		SkillGaps: []models.SkillGap{
			{Skill: "Python (AI/ML)", Importance: "High"},
			{Skill: "AWS Lambda / Serverless", Importance: "Medium"},
			{Skill: "Vector Databases", Importance: "Medium"},
		},
		ConfidenceScore: 80 + seed%15,
		Recommendations: []string{
			"30d: Ship a small LLM feature (RAG or agent) in a weekend project.",
			"45d: Earn an AWS Associate cert; focus on serverless patterns.",
			"60d: Publish a case study on automation savings for a past project.",
			"90d: Apply to AI-platform or solutions-architect roles with tailored resumes.",
		},
		PivotRoles:  pivotRoles,
		SalaryRange: "$140k–$180k (US)",
		MarketNote:  "Strong demand for cloud + AI-platform experience; security-aligned roles growing fastest.",
	}
}

// Explain implements AdvisorService.
func (a *advisorService) Explain(ctx context.Context, req *models.ExplainRequest) (string, error) {
	if a.generator == nil {
		return a.syntheticExplanation(req), nil
	}

	prompt := a.promptBuilder.BuildExplainPrompt(
		req.Resume, req.Job, req.Match, req.QuickMatch, req.Overlap, req.Missing,
	)

	explanation, err := a.generator.GenerateText(ctx, prompt, 0.4)
	if err != nil {
		return "", fmt.Errorf("failed to generate explanation: %w", err)
	}

	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		explanation = "Could not generate explanation."
	}

	return explanation, nil
}

func (a *advisorService) syntheticExplanation(req *models.ExplainRequest) string {
	topOverlap := joinTerms(req.Overlap, 10, "few direct overlaps")
	topMissing := joinTerms(req.Missing, 10, "key keywords from the job post")

	lines := []string{
		fmt.Sprintf("• Your resume aligns with several terms (%s), which boosted the score.", topOverlap),
		fmt.Sprintf("• The match dropped due to missing terms (%s). Add these to skills/projects where true.", topMissing),
		"• Strengthen the summary with role-specific metrics and mirror the job's phrasing for key responsibilities.",
		"• Showcase 1–2 recent projects that demonstrate the top 3 required skills from the job.",
		"• Tailor a 3–5 bullet \"Core Skills\" section that uses the employer's exact terms (only if accurate).",
	}
	return strings.Join(lines, "\n")
}

// Rewrite implements AdvisorService.
func (a *advisorService) Rewrite(ctx context.Context, req *models.RewriteRequest) ([]string, error) {
	desired := req.MaxBullets
	if desired < 3 {
		desired = 3
	}
	if desired > 4 {
		desired = 4
	}
	if req.MaxBullets == 0 {
		desired = 4
	}

	if a.generator == nil {
		return a.syntheticBullets(req.Overlap, req.Missing, desired), nil
	}

	prompt := a.promptBuilder.BuildRewritePrompt(req.Resume, req.Job, req.Overlap, req.Missing, desired)

	text, err := a.generator.GenerateText(ctx, prompt, 0.4)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bullets: %w", err)
	}

	bullets := parseBulletLines(text, desired)
	if len(bullets) == 0 {
		bullets = []string{
			"Delivered features aligned to job requirements; emphasized correctness, clarity, and maintainability.",
			"Collaborated with partners to translate requirements into shipped functionality with measurable outcomes.",
			"Proactively learned role-relevant tools; validated changes through reviews and testing.",
		}
		if len(bullets) > desired {
			bullets = bullets[:desired]
		}
	}

	return bullets, nil
}

func (a *advisorService) syntheticBullets(overlap, missing []string, desired int) []string {
	terms := make([]string, 0, 6)
	terms = append(terms, headTerms(overlap, 4)...)
	terms = append(terms, headTerms(missing, 2)...)

	seen := make(map[string]struct{}, len(terms))
	uniq := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}

	bullets := []string{
		fmt.Sprintf("Delivered features aligning to role needs, emphasizing %s and stakeholder outcomes.", joinTerms(uniq, 2, "core skills")),
		fmt.Sprintf("Improved systems using %s; focused on reliability, clarity, and maintainability.", joinTerms(tailTerms(uniq, 2), 2, "relevant tooling")),
		"Partnered cross-functionally to translate requirements into shipped work; documented decisions and reduced rework.",
		"Closed gaps by practicing relevant tools and patterns; validated changes via reviews and tests.",
	}

	if len(bullets) > desired {
		bullets = bullets[:desired]
	}
	return bullets
}

var bulletPrefixRe = regexp.MustCompile(`^[-•*\d.\s]+`)

func parseBulletLines(text string, max int) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == max {
			break
		}
	}
	return bullets
}

func headTerms(terms []string, n int) []string {
	if len(terms) > n {
		return terms[:n]
	}
	return terms
}

func tailTerms(terms []string, n int) []string {
	if len(terms) > n {
		return terms[len(terms)-n:]
	}
	return terms
}

func joinTerms(terms []string, limit int, fallback string) string {
	terms = headTerms(terms, limit)
	filtered := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return fallback
	}
	return strings.Join(filtered, ", ")
}
