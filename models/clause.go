package models

// Clause is one extracted contractual provision. Clauses belong to exactly
// one document; the store replaces a document's clause set wholesale on
// each extraction call.
type Clause struct {
	ID          string    `json:"clause_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Explanation string    `json:"explanation,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
}
