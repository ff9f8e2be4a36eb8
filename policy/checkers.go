package policy

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// rules run in this order and their codes are concatenated in this order.
var rules = []rule{
	{Name: "platform", Checker: checkPlatform},
	{Name: "caption", Checker: checkCaption},
	{Name: "forbidden", Checker: checkForbidden},
	{Name: "banks", Checker: checkBanks},
	{Name: "media", Checker: checkMedia},
	{Name: "links", Checker: checkLinks},
}

func checkPlatform(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	if cfg.PlatformEnabled(bundle.Platform) {
		return nil
	}
	return []string{code(CodePlatformNotEnabled, bundle.Platform)}
}

func checkCaption(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	return CaptionLength(bundle.Caption, cfg.CaptionRules[bundle.Platform])
}

func checkForbidden(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	return ForbiddenWords(bundle.Caption, cfg.ForbiddenWords)
}

func checkBanks(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	errs := BankMembership(bundle.Hashtags, cfg.HashtagBank[bundle.Platform], CodeHashtagNotAllowed)
	if bundle.CTA != nil && *bundle.CTA != "" {
		errs = append(errs, BankMembership([]string{*bundle.CTA}, cfg.CTABank[bundle.Platform], CodeCTANotAllowed)...)
	}
	return errs
}

func checkMedia(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	return Media(bundle.MediaSuggestion, cfg.MediaPolicy[bundle.Platform])
}

func checkLinks(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	return LinkDomains(bundle.Links, cfg.LinkPolicy.AllowedDomains)
}

// CaptionLength counts characters as Unicode code points.
func CaptionLength(caption string, r domain.CaptionRule) []string {
	length, limit := utf8.RuneCountInString(caption), r.Limit()
	if length > limit {
		return []string{code(CodeCaptionTooLong, fmt.Sprintf("%d>%d", length, limit))}
	}
	return nil
}

// ForbiddenWords reports each forbidden word found in the caption, case
// insensitively, in declaration order.
func ForbiddenWords(caption string, words []string) []string {
	low := strings.ToLower(caption)
	var errs []string
	for _, w := range words {
		if strings.Contains(low, strings.ToLower(w)) {
			errs = append(errs, code(CodeForbiddenWord, w))
		}
	}
	return errs
}

// BankMembership reports every value missing from bank. An empty bank
// permits everything.
func BankMembership(values, bank []string, category string) []string {
	if len(bank) == 0 {
		return nil
	}
	var errs []string
	for _, v := range values {
		if !slices.Contains(bank, v) {
			errs = append(errs, code(category, v))
		}
	}
	return errs
}

func Media(media brandproof.MediaSuggestion, p domain.MediaPolicy) []string {
	var errs []string
	if !slices.Contains(p.Allowed, media.Type) {
		errs = append(errs, code(CodeMediaTypeNotAllowed, media.Type))
	}
	if media.Type == carouselType {
		count, limit := 0, p.CarouselLimit()
		if media.Count != nil {
			count = *media.Count
		}
		if count < 1 || count > limit {
			errs = append(errs, code(CodeCarouselCountInvalid, fmt.Sprintf("%d>%d", count, limit)))
		}
	}
	return errs
}

// LinkDomains requires every link host to end with one of the allowed
// domain suffixes.
func LinkDomains(links []brandproof.Link, allowed []string) []string {
	suffixes := make([]string, 0, len(allowed))
	for _, d := range allowed {
		suffixes = append(suffixes, strings.ToLower(d))
	}

	var errs []string
	for _, l := range links {
		host := hostOf(l.URL)
		if !slices.ContainsFunc(suffixes, func(s string) bool { return strings.HasSuffix(host, s) }) {
			errs = append(errs, code(CodeLinkDomainNotAllowed, host))
		}
	}
	return errs
}

func code(category, detail string) string {
	return category + ":" + detail
}
