package extract

import "testing"

func TestLanguageTag(t *testing.T) {
	cases := []struct {
		hint string
		want string
	}{
		{"BR", "pt-BR"},
		{"br", "pt-BR"},
		{" bR ", "pt-BR"},
		{"US", "en"},
		{"", "en"},
		{"BRA", "en"},
	}
	for _, tc := range cases {
		if got := LanguageTag(tc.hint); got != tc.want {
			t.Errorf("LanguageTag(%q) = %q, want %q", tc.hint, got, tc.want)
		}
	}
}

func TestBuildSearchURL(t *testing.T) {
	got := BuildSearchURL("dentista em campinas", "BR")
	want := "https://www.tiktok.com/search?q=dentista+em+campinas&lang=pt-BR"
	if got != want {
		t.Fatalf("BuildSearchURL = %q, want %q", got, want)
	}

	if got := BuildSearchURL("", "US"); got != "https://www.tiktok.com/search?q=&lang=en" {
		t.Fatalf("BuildSearchURL empty query = %q", got)
	}
}

func TestBuildHashtagURL(t *testing.T) {
	got := BuildHashtagURL("  #gatos ", "BR")
	want := "https://www.tiktok.com/tag/gatos?lang=pt-BR"
	if got != want {
		t.Fatalf("BuildHashtagURL = %q, want %q", got, want)
	}

	// Only a single leading hash is stripped.
	if got := BuildHashtagURL("##dupla", "US"); got != "https://www.tiktok.com/tag/%23dupla?lang=en" {
		t.Fatalf("BuildHashtagURL double hash = %q", got)
	}
}

func TestVideoURL(t *testing.T) {
	if got := VideoURL("x", "123"); got != "https://www.tiktok.com/@x/video/123" {
		t.Fatalf("VideoURL = %q", got)
	}
}
