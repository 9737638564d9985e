package models

// ResultRecord is one successfully fetched search hit.
type ResultRecord struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// SearchQuery is the validated input of GET /search.
type SearchQuery struct {
	RawTerm      string
	DesiredCount int
}

// Question is one multiple-choice question as returned to clients.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
}

// Quiz is the response for GET /quiz/generate.
type Quiz struct {
	TotalQuestions int        `json:"totalQuestions"`
	Questions      []Question `json:"questions"`
}

// QuizParseFailure is returned with status 200 when the model output could
// not be decoded into a Quiz.
type QuizParseFailure struct {
	Error         string `json:"error"`
	OriginalInput string `json:"originalInput"`
}

// Experiment is the response for GET /experiment/generate.
type Experiment struct {
	Aim          string `json:"aim"`
	Introduction string `json:"introduction"`
	Article      string `json:"article"`
}

// ExtractTextResponse is the response for POST /extract-text.
type ExtractTextResponse struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Credentials is the payload for POST /api/register and /api/login.
type Credentials struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// TokenResponse is the response for POST /api/login.
type TokenResponse struct {
	Token string `json:"token"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	Version        string `json:"version"`
	SearchProvider string `json:"search_provider"`
	LLMProvider    string `json:"llm_provider"`
}
