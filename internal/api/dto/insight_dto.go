package dto

// AnalysisResponse is the per-member performance narrative.
type AnalysisResponse struct {
	Summary         string  `json:"summary"`
	Recommendation  string  `json:"recommendation"`
	PotentialRating float64 `json:"potential_rating"`
	Sentiment       string  `json:"sentiment"`
}

// WorkforceResponse is the roster-wide narrative.
type WorkforceResponse struct {
	Narrative string `json:"narrative"`
}
