package models

import "time"

// MasterResult combines a health check and a mentions measurement into a
// single analysis. The combined score weighs health 60% and visibility 40%.
type MasterResult struct {
	ID                       string          `json:"id"`
	URL                      string          `json:"url"`
	Company                  string          `json:"company"`
	Health                   *HealthResult   `json:"health"`
	Mentions                 *MentionsResult `json:"mentions"`
	CombinedScore            float64         `json:"combined_score"`
	CombinedGrade            string          `json:"combined_grade"`
	CombinedBand             string          `json:"combined_band"`
	BandColor                string          `json:"band_color"`
	StrategicRecommendations []string        `json:"strategic_recommendations"`
	PriorityActions          []string        `json:"priority_actions"`
	ExecutionTime            float64         `json:"total_execution_time_seconds"`
	GeneratedAt              time.Time       `json:"generated_at"`
}
