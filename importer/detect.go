package importer

import (
	"regexp"
	"strings"

	"github.com/Dosada05/commander-league/models"
)

var (
	archidektIDPattern = regexp.MustCompile(`/decks/(\d+)`)
	moxfieldIDPattern  = regexp.MustCompile(`/decks/([A-Za-z0-9_-]+)`)
)

// DetectSource picks the deck site from the URL.
func DetectSource(rawURL string) (models.DeckSource, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return "", invalidURL("deck URL is required")
	}
	lower := strings.ToLower(u)
	switch {
	case strings.Contains(lower, "archidekt.com"):
		return models.SourceArchidekt, nil
	case strings.Contains(lower, "moxfield.com"):
		return models.SourceMoxfield, nil
	default:
		return "", unsupportedSource()
	}
}

// ExtractID pulls the site-specific deck id out of the URL path.
func ExtractID(source models.DeckSource, rawURL string) (string, error) {
	var pattern *regexp.Regexp
	switch source {
	case models.SourceArchidekt:
		pattern = archidektIDPattern
	case models.SourceMoxfield:
		pattern = moxfieldIDPattern
	default:
		return "", unsupportedSource()
	}

	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", invalidURL("could not find a deck id in the " + siteName(source) + " URL")
	}
	return m[1], nil
}

func siteName(source models.DeckSource) string {
	switch source {
	case models.SourceArchidekt:
		return "Archidekt"
	case models.SourceMoxfield:
		return "Moxfield"
	default:
		return string(source)
	}
}
