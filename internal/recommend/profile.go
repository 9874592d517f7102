package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/macerhappen/backend/internal/models"
)

// DefaultLikedLimit is how many recent liked titles go into a profile.
const DefaultLikedLimit = 10

// ProfileBuilder renders a participant's preferences and likes as text for
// the ranker.
type ProfileBuilder struct {
	swipes     SwipeReader
	likedLimit int
}

// NewProfileBuilder creates a profile builder. A non-positive likedLimit
// selects DefaultLikedLimit.
func NewProfileBuilder(swipes SwipeReader, likedLimit int) *ProfileBuilder {
	if likedLimit <= 0 {
		likedLimit = DefaultLikedLimit
	}
	return &ProfileBuilder{swipes: swipes, likedLimit: likedLimit}
}

// Build returns the profile text for a participant.
func (b *ProfileBuilder) Build(ctx context.Context, participantID int64, prefs models.Preferences) (string, error) {
	liked, err := b.swipes.RecentLikedTitles(ctx, participantID, b.likedLimit)
	if err != nil {
		return "", fmt.Errorf("load liked titles: %w", err)
	}
	if len(liked) > b.likedLimit {
		liked = liked[:b.likedLimit]
	}
	return ProfileText(prefs, liked), nil
}

// ProfileText formats preferences and liked titles.
func ProfileText(prefs models.Preferences, likedTitles []string) string {
	categories := strings.Join(prefs.CategoryNames, ", ")
	if categories == "" {
		categories = "none specified"
	}
	liked := strings.Join(likedTitles, ", ")
	if liked == "" {
		liked = "none yet"
	}
	return fmt.Sprintf("User prefers categories: %s.\nBudget available: %s.\nPreviously liked events: %s.",
		categories, prefs.Budget.StringFixed(2), liked)
}
