package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExplainPrompt creates the prompt for a match-score explanation.
func (pb *PromptBuilder) BuildExplainPrompt(resume, job string, match, quickMatch int, overlap, missing []string) string {
	return fmt.Sprintf(`You write brief, clear hiring analytics explanations.
Explain in 120-180 words, organized in short bullet points.
Be practical and specific. Avoid generic advice.

Job Match Summary
Match (embeddings): %d%%
Quick Match (keywords): %d%%

Top overlapping terms from the job description found in the resume:
%s

Important job-description terms missing from the resume (suggest adding only if accurate):
%s

Resume (excerpt):
%s

Job (excerpt):
%s

Write a concise explanation with bullets:
- Why the score is what it is
- What to add/remove/tailor to improve alignment
- 1 concrete project or evidence suggestion to demonstrate fit
Only give practical guidance, no fluff.`,
		match,
		quickMatch,
		formatTermList(overlap, 15),
		formatTermList(missing, 15),
		excerpt(resume, 1200),
		excerpt(job, 1200),
	)
}

// BuildRewritePrompt creates the prompt for resume bullet rewriting.
func (pb *PromptBuilder) BuildRewritePrompt(resume, job string, overlap, missing []string, desired int) string {
	return fmt.Sprintf(`You rewrite resume bullet points for job alignment.
Rules:
- Never fabricate responsibilities, employers, dates, titles, or metrics.
- Only include skills or keywords the candidate can evidence from the resume text.
- Prefer concise, action-verb-led bullets (max ~22 words).
- Use measurable impact if present in the resume; if none, omit it.
- Mirror the job description's phrasing only when truthful.
- Return %d bullet lines, no numbering or quotes.

Job terms the candidate already matches:
%s

Important job terms the candidate might be missing (include ONLY if truthful):
%s

Resume excerpt (use ONLY what is true here, do NOT invent):
%s

Job description excerpt (for phrasing alignment only):
%s`,
		desired,
		formatTermList(overlap, 20),
		formatTermList(missing, 20),
		excerpt(resume, 5000),
		excerpt(job, 5000),
	)
}

func formatTermList(terms []string, limit int) string {
	if len(terms) == 0 {
		return "- (none listed)"
	}
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return "- " + strings.Join(terms, "\n- ")
}

func excerpt(text string, maxChars int) string {
	if len(text) > maxChars {
		return text[:maxChars]
	}
	return text
}
