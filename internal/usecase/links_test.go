package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/totegamma/brandproof"
)

func TestNormalizeLinksFallbackWeek(t *testing.T) {
	bundle := amarBundle()
	bundle.Week = nil
	bundle.Platform = "LinkedIn"

	out := NormalizeLinks(bundle, amarConfig())
	assert.Equal(t, "https://amar.co.uk/new?utm_source=linkedin&utm_medium=social&utm_campaign=amar_W00", out.Links[0].URL)
}

func TestNormalizeLinksWithoutTemplate(t *testing.T) {
	cfg := amarConfig()
	cfg.LinkPolicy.UTMTemplate = ""

	out := NormalizeLinks(amarBundle(), cfg)
	assert.Equal(t, amarBundle().Links, out.Links)
}

func TestNormalizeLinksOnlyFlagged(t *testing.T) {
	bundle := amarBundle()
	first := NormalizeLinks(bundle, amarConfig())

	// Unflag everything: a second pass must leave the URLs alone.
	for i := range first.Links {
		first.Links[i].UTM = false
	}
	second := NormalizeLinks(first, amarConfig())
	assert.Equal(t, first.Links, second.Links)
}

func TestApplyUTM(t *testing.T) {
	assert.Equal(t, "https://a.com/x?utm=1", ApplyUTM("https://a.com/x", "utm=1"))
	assert.Equal(t, "https://a.com/x?a=b&utm=1", ApplyUTM("https://a.com/x?a=b", "utm=1"))
}

func TestNormalizeLinksEmpty(t *testing.T) {
	out := NormalizeLinks(brandproof.Bundle{Platform: "X"}, amarConfig())
	assert.Empty(t, out.Links)
}
