package brandproof

import (
	"encoding/json"
)

const (
	DefaultPostID = "post"
	FallbackWeek  = "W00"
)

type MediaSuggestion struct {
	Type  string  `json:"type"`
	Count *int    `json:"count"`
	Notes *string `json:"notes"`
}

type Link struct {
	URL string `json:"url"`
	UTM bool   `json:"utm"`
}

// UnmarshalJSON treats a missing utm flag as true.
func (l *Link) UnmarshalJSON(data []byte) error {
	type rawLink struct {
		URL string `json:"url"`
		UTM *bool  `json:"utm"`
	}
	var raw rawLink
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.URL = raw.URL
	l.UTM = raw.UTM == nil || *raw.UTM
	return nil
}

// Bundle is one post awaiting validation.
type Bundle struct {
	Brand           string          `json:"brand"`
	Platform        string          `json:"platform"`
	Caption         string          `json:"caption"`
	Hashtags        []string        `json:"hashtags"`
	CTA             *string         `json:"cta"`
	MediaSuggestion MediaSuggestion `json:"media_suggestion"`
	Links           []Link          `json:"links"`
	Week            *string         `json:"week"`
	PostID          *string         `json:"post_id"`
}

type ValidateResult struct {
	Valid            bool     `json:"valid"`
	Errors           []string `json:"errors"`
	SHA256           string   `json:"sha256,omitempty"`
	ProofFile        string   `json:"proof_file,omitempty"`
	NormalizedBundle *Bundle  `json:"normalized_bundle,omitempty"`
}

type ProofEvent struct {
	Brand     string `json:"brand"`
	Platform  string `json:"platform"`
	PostID    string `json:"post_id"`
	SHA256    string `json:"sha256"`
	ProofFile string `json:"proof_file"`
	Timestamp string `json:"timestamp"`
}
