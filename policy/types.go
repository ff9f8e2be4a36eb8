package policy

import (
	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

const (
	CodePlatformNotEnabled   = "PLATFORM_NOT_ENABLED"
	CodeCaptionTooLong       = "CAPTION_TOO_LONG"
	CodeForbiddenWord        = "FORBIDDEN_WORD"
	CodeHashtagNotAllowed    = "HASHTAG_NOT_ALLOWED"
	CodeCTANotAllowed        = "CTA_NOT_ALLOWED"
	CodeMediaTypeNotAllowed  = "MEDIA_TYPE_NOT_ALLOWED"
	CodeCarouselCountInvalid = "CAROUSEL_COUNT_INVALID"
	CodeLinkDomainNotAllowed = "LINK_DOMAIN_NOT_ALLOWED"
)

const carouselType = "carousel"

// Checker inspects one policy dimension and returns its violations in a
// stable order. Checkers never mutate their inputs.
type Checker func(bundle brandproof.Bundle, cfg domain.BrandConfig) []string

type rule struct {
	Name    string
	Checker Checker
}
