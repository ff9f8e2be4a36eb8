package brandproof

import (
	"fmt"
	"slices"
	"strings"
)

// NormalizeBrand lowercases a brand name and removes spaces. The result is
// the lookup key for brand configuration.
func NormalizeBrand(brand string) string {
	return strings.ReplaceAll(strings.ToLower(brand), " ", "")
}

// Validate rejects bundles that are structurally unusable. Policy violations
// are not reported here.
func (b Bundle) Validate() error {
	if strings.TrimSpace(b.Brand) == "" {
		return fmt.Errorf("brand is required")
	}
	if strings.TrimSpace(b.Platform) == "" {
		return fmt.Errorf("platform is required")
	}
	if b.MediaSuggestion.Type == "" {
		return fmt.Errorf("media_suggestion.type is required")
	}
	if b.MediaSuggestion.Count != nil && *b.MediaSuggestion.Count < 0 {
		return fmt.Errorf("media_suggestion.count must not be negative")
	}
	for i, l := range b.Links {
		if strings.TrimSpace(l.URL) == "" {
			return fmt.Errorf("links[%d].url is required", i)
		}
	}
	return nil
}

func (b Bundle) Clone() Bundle {
	c := b
	c.Hashtags = slices.Clone(b.Hashtags)
	c.Links = slices.Clone(b.Links)
	c.CTA = clonePtr(b.CTA)
	c.Week = clonePtr(b.Week)
	c.PostID = clonePtr(b.PostID)
	c.MediaSuggestion.Count = clonePtr(b.MediaSuggestion.Count)
	c.MediaSuggestion.Notes = clonePtr(b.MediaSuggestion.Notes)
	return c
}

// WeekLabel returns the bundle week, or FallbackWeek when none was supplied.
func (b Bundle) WeekLabel() string {
	if b.Week == nil || *b.Week == "" {
		return FallbackWeek
	}
	return *b.Week
}

func (b Bundle) PostIDOrDefault() string {
	if b.PostID == nil || *b.PostID == "" {
		return DefaultPostID
	}
	return *b.PostID
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
