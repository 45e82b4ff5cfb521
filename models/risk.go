package models

import "fmt"

// RiskLevel classifies how dangerous a clause or finding is.
// Levels are ordered: low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// ParseRiskLevel validates a raw severity string from a backend payload.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if _, ok := riskRank[level]; !ok {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return level, nil
}

// RiskLevelOrDefault parses a severity string, falling back to low for
// anything the backend sends that we don't recognize.
func RiskLevelOrDefault(s string) RiskLevel {
	if level, err := ParseRiskLevel(s); err == nil {
		return level
	}
	return RiskLow
}

// AtLeast reports whether r meets or exceeds the given threshold.
// Used for alert severity filtering.
func (r RiskLevel) AtLeast(threshold RiskLevel) bool {
	return riskRank[r] >= riskRank[threshold]
}

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	_, ok := riskRank[r]
	return ok
}
