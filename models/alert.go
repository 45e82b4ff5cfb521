package models

// Alert is a flagged risk finding for a document. ClauseReference names a
// clause_id that is expected, but not enforced, to exist.
type Alert struct {
	ID              string    `json:"alert_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RiskLevel       RiskLevel `json:"risk_level"`
	ClauseReference string    `json:"clause_reference"`
	Recommendation  string    `json:"recommendation"`
	PageNumber      int       `json:"page_number,omitempty"`
}
