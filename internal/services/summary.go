// Package services – transcript aggregation
//
// This file implements the summary computed over a company's conversation
// history: total question count, cumulative processing time rendered as a
// human-readable duration, and a per-turn detail list preserving the order
// the turns were supplied in (the reporting endpoint supplies them newest
// first).
package services

import (
	"fmt"

	"github.com/morseverse/backend/internal/domain"
)

// Summarize aggregates a collection of conversation turns. Turns without a
// recorded process time contribute zero to the total but are still counted
// and listed. An empty collection is a valid zero summary, not an error.
func Summarize(turns []domain.Turn) domain.TranscriptSummary {
	details := make([]domain.TurnDetail, 0, len(turns))
	var totalSeconds float64

	for _, t := range turns {
		if t.Answer.ProcessTime != nil {
			totalSeconds += *t.Answer.ProcessTime
		}
		details = append(details, domain.TurnDetail{
			UserID:   t.UserID.Hex(),
			Question: t.Answer.Question,
			Answer:   t.Answer.Answer,
			Time:     t.Time,
		})
	}

	return domain.TranscriptSummary{
		TotalQuestions: len(turns),
		TotalTime:      formatTotalTime(totalSeconds),
		Details:        details,
	}
}

// formatTotalTime renders a second count as "D day(s), H:MM:SS" with the
// days part omitted when zero and hours left unpadded ("0:00:00",
// "1:30:00", "2 days, 1:30:00").
func formatTotalTime(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}

	days := total / 86400
	rem := total % 86400
	h := rem / 3600
	m := (rem % 3600) / 60
	s := rem % 60

	hms := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	switch {
	case days == 1:
		return fmt.Sprintf("1 day, %s", hms)
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, hms)
	default:
		return hms
	}
}
