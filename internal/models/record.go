package models

// AnalysisRecord is one persisted analysis in the history table.
type AnalysisRecord struct {
	UUID            string `gorm:"primaryKey;type:varchar(36)" json:"uuid"`
	URL             string `gorm:"index" json:"url"`
	Domain          string `json:"domain"`
	TrustScore      int    `json:"trust_score"`
	ReputationLabel string `json:"reputation_label"`
	ThreatLevel     string `json:"threat_level"`
	RiskLevel       string `json:"risk_level"`
	RawJSON         string `gorm:"type:text" json:"raw_json,omitempty"`
	CreatedAt       int64  `gorm:"autoCreateTime" json:"created_at"`
}
