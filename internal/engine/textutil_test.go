package engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantHas []string
		wantNot []string
	}{
		{"plain passthrough", "  first!  ", []string{"first!"}, nil},
		{"underscore handle stays literal", "thanks @john_doe<br>great video", []string{"@john_doe", "great video"}, []string{`\_`, "<br>"}},
		{"link keeps target", `see <a href="https://www.youtube.com/watch?v=abc">1:02</a>`, []string{"1:02", "https://www.youtube.com/watch?v=abc"}, []string{"<a"}},
		{"entities decoded", "Tom &amp; Jerry", []string{"Tom & Jerry"}, []string{"&amp;"}},
		{"script stripped", `hi<script>alert(1)</script> there`, []string{"hi", "there"}, []string{"alert", "<script"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLToText(tt.in)
			for _, want := range tt.wantHas {
				if !strings.Contains(got, want) {
					t.Errorf("HTMLToText(%q) = %q, missing %q", tt.in, got, want)
				}
			}
			for _, bad := range tt.wantNot {
				if strings.Contains(got, bad) {
					t.Errorf("HTMLToText(%q) = %q, should not contain %q", tt.in, got, bad)
				}
			}
		})
	}
}

func TestHTMLPlainText(t *testing.T) {
	got := htmlPlainText(`hello <b>@bob</b><br>bye &lt;3`)
	want := "hello @bob\nbye <3"
	if got != want {
		t.Errorf("htmlPlainText() = %q, want %q", got, want)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10, "..."); got != "short" {
		t.Errorf("TruncateRunes() = %q, want unchanged", got)
	}
	in := "привет мир, как дела"
	got := TruncateRunes(in, 6, "...")
	if !utf8.ValidString(got) || len(got) >= len(in) {
		t.Errorf("TruncateRunes() = %q, want shorter valid UTF-8", got)
	}
}
