package recommend

import "github.com/macerhappen/backend/internal/models"

// Assemble orders candidates by rankedIDs and appends the candidates the
// ranker left out in their original order. IDs that are unknown or repeated
// are skipped, so the result holds every candidate exactly once.
func Assemble(candidates []models.Event, rankedIDs []int64) []models.EventDetail {
	byID := make(map[int64]*models.Event, len(candidates))
	for i := range candidates {
		if _, ok := byID[candidates[i].ID]; !ok {
			byID[candidates[i].ID] = &candidates[i]
		}
	}

	out := make([]models.EventDetail, 0, len(byID))
	emitted := make(map[int64]struct{}, len(byID))
	for _, id := range rankedIDs {
		e, ok := byID[id]
		if !ok {
			continue
		}
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		out = append(out, e.Detail())
	}
	for i := range candidates {
		id := candidates[i].ID
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		out = append(out, candidates[i].Detail())
	}
	return out
}
