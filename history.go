package xogen

import (
	"time"

	"github.com/xostack/xogen/provider"
)

// recentErrorCount is how many failure descriptions Stats keeps.
const recentErrorCount = 3

// Record is one Generate call. Lengths are counted in runes.
type Record struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Provider       provider.ID   `json:"provider"`
	Model          string        `json:"model"`
	PromptLength   int           `json:"prompt_length"`
	Success        bool          `json:"success"`
	ResponseLength int           `json:"response_length,omitempty"`
	Error          string        `json:"error,omitempty"`
	Kind           provider.Kind `json:"-"`
	Duration       time.Duration `json:"duration"`
}

// Stats aggregates a Client's history.
type Stats struct {
	Provider              provider.ID `json:"provider"`
	Model                 string      `json:"model"`
	TotalGenerations      int         `json:"total_generations"`
	SuccessfulGenerations int         `json:"successful_generations"`
	FailedGenerations     int         `json:"failed_generations"`
	SuccessRate           float64     `json:"success_rate"`

	// Set only when at least one call succeeded.
	AvgPromptLength   float64   `json:"avg_prompt_length,omitempty"`
	AvgResponseLength float64   `json:"avg_response_length,omitempty"`
	LastSuccessful    time.Time `json:"last_successful,omitzero"`

	// Descriptions of the most recent failures, oldest first. Nil when nothing failed.
	RecentErrors []string `json:"recent_errors,omitempty"`
}

func computeStats(id provider.ID, model string, total int, history []Record) Stats {
	s := Stats{
		Provider:         id,
		Model:            model,
		TotalGenerations: total,
	}

	var promptSum, responseSum int
	var failures []string
	for _, r := range history {
		if r.Success {
			s.SuccessfulGenerations++
			promptSum += r.PromptLength
			responseSum += r.ResponseLength
			s.LastSuccessful = r.Timestamp
			continue
		}
		s.FailedGenerations++
		failures = append(failures, r.Error)
	}

	if total > 0 {
		s.SuccessRate = float64(s.SuccessfulGenerations) / float64(total)
	}
	if s.SuccessfulGenerations > 0 {
		s.AvgPromptLength = float64(promptSum) / float64(s.SuccessfulGenerations)
		s.AvgResponseLength = float64(responseSum) / float64(s.SuccessfulGenerations)
	}
	if len(failures) > recentErrorCount {
		failures = failures[len(failures)-recentErrorCount:]
	}
	if len(failures) > 0 {
		s.RecentErrors = append([]string(nil), failures...)
	}
	return s
}
