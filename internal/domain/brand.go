package domain

import (
	"slices"
)

const (
	DefaultMaxChars    = 99999
	DefaultMaxCarousel = 10
	DefaultTimezone    = "Europe/London"
)

// BrandConfig is the policy document for one brand. It is read-only once
// loaded and may be shared between concurrent validations.
type BrandConfig struct {
	Brand               string                 `json:"brand"`
	Voice               *Voice                 `json:"voice,omitempty"`
	Story               string                 `json:"story,omitempty"`
	Platforms           []string               `json:"platforms"`
	Cadence             map[string]int         `json:"cadence,omitempty"`
	MediaPolicy         map[string]MediaPolicy `json:"media_policy"`
	CaptionRules        map[string]CaptionRule `json:"caption_rules"`
	HashtagBank         map[string][]string    `json:"hashtag_bank"`
	CTABank             map[string][]string    `json:"cta_bank"`
	ForbiddenWords      []string               `json:"forbidden_words"`
	RequiredDisclosures []string               `json:"required_disclosures,omitempty"`
	LinkPolicy          LinkPolicy             `json:"link_policy"`
	ProofManifest       ProofManifest          `json:"proof_manifest"`
}

type Voice struct {
	Tone  string `json:"tone"`
	Style string `json:"style"`
}

type CaptionRule struct {
	MaxChars      *int `json:"max_chars,omitempty"`
	AllowEmojis   bool `json:"allow_emojis"`
	AllowMentions bool `json:"allow_mentions"`
}

// Limit returns the configured character limit or DefaultMaxChars.
func (r CaptionRule) Limit() int {
	if r.MaxChars == nil {
		return DefaultMaxChars
	}
	return *r.MaxChars
}

// MediaPolicy constraints other than Allowed and MaxCarousel are advisory.
type MediaPolicy struct {
	Allowed     []string `json:"allowed"`
	MaxCarousel *int     `json:"max_carousel,omitempty"`
	DocPagesMax *int     `json:"doc_pages_max,omitempty"`
	MinRes      string   `json:"min_res,omitempty"`
	Aspect      []string `json:"aspect,omitempty"`
	VideoCap    string   `json:"video_cap,omitempty"`
}

func (p MediaPolicy) CarouselLimit() int {
	if p.MaxCarousel == nil {
		return DefaultMaxCarousel
	}
	return *p.MaxCarousel
}

type LinkPolicy struct {
	AllowedDomains      []string `json:"allowed_domains"`
	UTMTemplate         string   `json:"utm_template"`
	LinkedinIncludeLink bool     `json:"linkedin_include_link,omitempty"`
	InstagramLinkInBio  bool     `json:"instagram_link_in_bio,omitempty"`
	UseShortener        bool     `json:"use_shortener,omitempty"`
	ShortenerDomain     string   `json:"shortener_domain,omitempty"`
}

type ProofManifest struct {
	Root       string `json:"root"`
	WeekFormat string `json:"week_format,omitempty"`
	Timezone   string `json:"timezone"`
	Example    string `json:"example,omitempty"`
}

func (m ProofManifest) Location() string {
	if m.Timezone == "" {
		return DefaultTimezone
	}
	return m.Timezone
}

// Keys lists the populated top-level sections of the configuration.
func (c BrandConfig) Keys() []string {
	keys := []string{"brand"}
	add := func(name string, present bool) {
		if present {
			keys = append(keys, name)
		}
	}
	add("voice", c.Voice != nil)
	add("story", c.Story != "")
	add("platforms", c.Platforms != nil)
	add("cadence", c.Cadence != nil)
	add("media_policy", c.MediaPolicy != nil)
	add("caption_rules", c.CaptionRules != nil)
	add("hashtag_bank", c.HashtagBank != nil)
	add("cta_bank", c.CTABank != nil)
	add("forbidden_words", c.ForbiddenWords != nil)
	add("required_disclosures", c.RequiredDisclosures != nil)
	add("link_policy", len(c.LinkPolicy.AllowedDomains) > 0 || c.LinkPolicy.UTMTemplate != "")
	add("proof_manifest", c.ProofManifest.Root != "")
	return keys
}

func (c BrandConfig) PlatformEnabled(platform string) bool {
	return slices.Contains(c.Platforms, platform)
}
