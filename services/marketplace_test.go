package services

import "testing"

func TestDetectMarketplace(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.otomoto.pl/oferta/bmw-320d-ID6.html", "otomoto"},
		{"https://m.olx.pl/d/oferta/golf-iv.html", "olx"},
		{"https://allegro.pl/oferta/passat-b8", "allegro"},
		{"https://suchen.mobile.de/fahrzeuge/details.html?id=1", "mobile.de"},
		{"https://www.autoscout24.de/angebote/a3", "autoscout24"},
		{"https://www.facebook.com/marketplace/item/123", "facebook"},
		{"https://www.example.com/car/1", ""},
		{"", ""},
		// Case-insensitive matching
		{"HTTPS://WWW.OTOMOTO.PL/OFERTA/X", "otomoto"},
	}

	for _, tt := range tests {
		got := DetectMarketplace(tt.url)
		if got != tt.want {
			t.Errorf("DetectMarketplace(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}
