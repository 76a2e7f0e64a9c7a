package analytics

import "time"

// Age thresholds for contracts that need follow-up.
const (
	SentFollowUpAfter = 7 * day
	DraftStaleAfter   = 14 * day
)

// ContractAnalysis groups contracts by status and picks out the ones that need attention.
type ContractAnalysis struct {
	ByStatus        map[ContractStatus]int `json:"byStatus"`
	Urgent          []ContractRecord       `json:"urgent"`
	ExpiringSoon    []ContractRecord       `json:"expiringSoon"`
	SignedThisMonth int                    `json:"signedThisMonth"`
}

// StartOfMonth returns the first instant of now's calendar month in now's location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// AnalyzeContracts tallies contracts by status, flags sent contracts unsigned
// after a week as urgent, flags drafts untouched for two weeks as expiring and
// counts signings since the start of the current month.
func AnalyzeContracts(contracts []ContractRecord, now time.Time) ContractAnalysis {
	analysis := ContractAnalysis{
		ByStatus:     make(map[ContractStatus]int),
		Urgent:       []ContractRecord{},
		ExpiringSoon: []ContractRecord{},
	}
	monthStart := StartOfMonth(now)

	for _, c := range contracts {
		analysis.ByStatus[c.Status]++
		age := now.Sub(c.CreatedAt)

		switch c.Status {
		case ContractStatusSent:
			if age > SentFollowUpAfter {
				analysis.Urgent = append(analysis.Urgent, c)
			}
		case ContractStatusDraft:
			if age > DraftStaleAfter {
				analysis.ExpiringSoon = append(analysis.ExpiringSoon, c)
			}
		case ContractStatusSigned:
			if c.SignedAt != nil && !c.SignedAt.Before(monthStart) {
				analysis.SignedThisMonth++
			}
		}
	}

	return analysis
}
