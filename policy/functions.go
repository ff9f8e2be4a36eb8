package policy

import (
	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// Evaluate runs every rule against the bundle and returns all violations.
// No rule is skipped because an earlier one failed. A nil result means the
// bundle is compliant.
func Evaluate(bundle brandproof.Bundle, cfg domain.BrandConfig) []string {
	var errs []string
	for _, r := range rules {
		errs = append(errs, r.Checker(bundle, cfg)...)
	}
	return errs
}

// RuleNames lists the rules in evaluation order.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}
