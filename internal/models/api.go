package models

type ExtractResponse struct {
	Text        string `json:"text"`
	Source      string `json:"source"`
	OCRProvider string `json:"ocrProvider,omitempty"`
}

type MatchRequest struct {
	Resume string `json:"resume"`
	Job    string `json:"job"`
}

type MatchResponse struct {
	Match      int      `json:"match"`
	QuickMatch int      `json:"quickMatch"`
	Overlap    []string `json:"overlap"`
	Missing    []string `json:"missing"`
	Method     string   `json:"method"`
	Model      string   `json:"model"`
}

type ExplainRequest struct {
	Resume     string   `json:"resume"`
	Job        string   `json:"job"`
	Match      int      `json:"match"`
	QuickMatch int      `json:"quickMatch"`
	Overlap    []string `json:"overlap"`
	Missing    []string `json:"missing"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

type RewriteRequest struct {
	Resume     string   `json:"resume"`
	Job        string   `json:"job"`
	Overlap    []string `json:"overlap"`
	Missing    []string `json:"missing"`
	MaxBullets int      `json:"maxBullets"`
}

type RewriteResponse struct {
	Bullets []string `json:"bullets"`
}

type AnalyzeRequest struct {
	Resume  string `json:"resume"`
	JobDesc string `json:"jobDesc"`
}

type SkillGap struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
}

type PivotRole struct {
	Title string `json:"title"`
}

type AnalyzeResponse struct {
	AutomationRisk  int         `json:"automationRisk"`
	Skills          []string    `json:"skills"`
	Jobs            []string    `json:"jobs"`
	SkillGaps       []SkillGap  `json:"skillGaps"`
	ConfidenceScore int         `json:"confidenceScore"`
	Recommendations []string    `json:"recommendations"`
	PivotRoles      []PivotRole `json:"pivotRoles,omitempty"`
	SalaryRange     string      `json:"salaryRange,omitempty"`
	MarketNote      string      `json:"marketNote,omitempty"`
}

type OpportunitiesRequest struct {
	Resume string `json:"resume"`
	Limit  int    `json:"limit"`
}

type Opportunity struct {
	Title   string `json:"title"`
	Score   int    `json:"score"`
	Basis   string `json:"basis"`
	Snippet string `json:"snippet,omitempty"`
}

type OpportunitiesResponse struct {
	Opportunities []Opportunity `json:"opportunities"`
}
