// backend/services/marketplace.go
package services

import "strings"

// marketplaceDomains maps a domain fragment of the listing URL to the
// marketplace label stored on the listing. Detection is longest-match
// substring so "m.otomoto.pl/..." and "www.olx.pl/..." both resolve.
var marketplaceDomains = map[string]string{
	"otomoto.pl":  "otomoto",
	"olx.pl":      "olx",
	"allegro.pl":  "allegro",
	"mobile.de":   "mobile.de",
	"autoscout24": "autoscout24",
	"facebook":    "facebook",
}

// DetectMarketplace derives the marketplace label from a listing URL.
// Unrecognized or empty URLs yield "", never an error.
func DetectMarketplace(listingURL string) string {
	lower := strings.ToLower(listingURL)
	best := ""
	bestLen := 0
	for domain, name := range marketplaceDomains {
		if len(domain) > bestLen && strings.Contains(lower, domain) {
			best = name
			bestLen = len(domain)
		}
	}
	return best
}
