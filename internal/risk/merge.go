package risk

import (
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// contiguityTolerance is the maximum gap between a block's end and the next
// day that still counts as consecutive: one calendar day plus slack for
// small timestamp offsets introduced by date parsing.
const contiguityTolerance = 24*time.Hour + 10*time.Second

// DayState is one classified day in an (item, org) sequence.
type DayState struct {
	Date  time.Time
	State domain.RiskState
}

// MergeResult carries the merged blocks plus the lead-time exposure
// computed in the same pass.
type MergeResult struct {
	Blocks                   []domain.ShortageBlock
	HasInsideLeadTimeRisk    bool
	FirstOutsideLeadTimeRisk *time.Time
}

// Merge folds a chronologically ascending day sequence into contiguous
// same-state shortage blocks. Days classified None close any open block;
// at-risk days extend the open block when the state matches and the gap
// stays within tolerance, otherwise they start a new one-day block.
//
// The caller must supply days sorted ascending; the merger does not re-sort.
// Days present in the sequence are the only days counted, so input gaps do
// not inflate block duration.
//
// boundary is the org's lead-time horizon: at-risk days on or before it set
// HasInsideLeadTimeRisk, later ones feed FirstOutsideLeadTimeRisk.
func Merge(days []DayState, boundary time.Time) MergeResult {
	var result MergeResult
	var open *domain.ShortageBlock

	for _, day := range days {
		if day.State == domain.RiskNone {
			if open != nil {
				result.Blocks = append(result.Blocks, *open)
				open = nil
			}
			continue
		}

		if !day.Date.After(boundary) {
			result.HasInsideLeadTimeRisk = true
		} else if result.FirstOutsideLeadTimeRisk == nil || day.Date.Before(*result.FirstOutsideLeadTimeRisk) {
			d := day.Date
			result.FirstOutsideLeadTimeRisk = &d
		}

		if open != nil && open.State == day.State && day.Date.Sub(open.End) <= contiguityTolerance {
			open.End = day.Date
			open.Days++
			continue
		}

		if open != nil {
			result.Blocks = append(result.Blocks, *open)
		}
		open = &domain.ShortageBlock{
			Start: day.Date,
			End:   day.Date,
			State: day.State,
			Days:  1,
		}
	}

	if open != nil {
		result.Blocks = append(result.Blocks, *open)
	}
	return result
}
