package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stateSelector locates the script element the platform hydrates pages with.
const stateSelector = "script#SIGI_STATE"

// State parses an HTML document and returns the embedded hydration state.
// A missing element and a malformed payload are the same expected condition
// (consent walls, empty result pages, markup changes) and both yield nil;
// this function never returns an error. Shape validation is Normalize's job.
func State(html string) map[string]any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	node := doc.Find(stateSelector).First()
	if node.Length() == 0 {
		return nil
	}

	raw := strings.TrimSpace(node.Text())
	if raw == "" {
		return nil
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil
	}
	return state
}
