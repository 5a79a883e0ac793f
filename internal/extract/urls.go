package extract

import (
	"net/url"
	"strings"
)

const platformBase = "https://www.tiktok.com"

// LanguageTag maps a country hint to the lang parameter the platform expects.
// Only Brazil gets a localised tag; everything else falls back to English.
func LanguageTag(countryHint string) string {
	if strings.EqualFold(strings.TrimSpace(countryHint), "BR") {
		return "pt-BR"
	}
	return "en"
}

// BuildSearchURL produces the platform's primary search endpoint for a
// free-text query. Always returns a well-formed URL, even for empty input.
func BuildSearchURL(query, countryHint string) string {
	return platformBase + "/search?q=" + url.QueryEscape(query) + "&lang=" + LanguageTag(countryHint)
}

// BuildHashtagURL produces the tag-browsing endpoint for a query, stripping a
// single leading "#" and surrounding whitespace from the tag name.
func BuildHashtagURL(query, countryHint string) string {
	name := strings.TrimSpace(query)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimSpace(name)
	return platformBase + "/tag/" + url.PathEscape(name) + "?lang=" + LanguageTag(countryHint)
}

// VideoURL builds the canonical link for a video when the item carried no
// share link of its own.
func VideoURL(author, id string) string {
	return platformBase + "/@" + author + "/video/" + id
}
