package usecase

import (
	"strings"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// NormalizeLinks returns a copy of bundle whose UTM-flagged links carry the
// brand's UTM query string. The input bundle is left untouched.
func NormalizeLinks(bundle brandproof.Bundle, cfg domain.BrandConfig) brandproof.Bundle {
	normalized := bundle.Clone()
	tpl := cfg.LinkPolicy.UTMTemplate
	if tpl == "" {
		return normalized
	}

	utm := strings.NewReplacer(
		"{platform}", strings.ToLower(bundle.Platform),
		"{brand}", strings.ToLower(cfg.Brand),
		"{week}", bundle.WeekLabel(),
	).Replace(tpl)

	for i, l := range normalized.Links {
		if !l.UTM {
			continue
		}
		normalized.Links[i].URL = ApplyUTM(l.URL, utm)
	}
	return normalized
}

// ApplyUTM appends query to url using "&" when url already has a query.
func ApplyUTM(url, query string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + query
}
