package engine

import (
	"testing"

	"github.com/evaly/formimport/models"
)

func TestDeriveSourceID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "published form",
			url:  "https://docs.google.com/forms/d/e/1FAIpQLSdV9sQxTz8KbW2mJr4/viewform",
			want: "1FAIpQLSdV9sQxTz8KbW2mJr4",
		},
		{
			name: "editor form",
			url:  "https://docs.google.com/forms/d/1aB2cD3eF4gH5iJ6kL7m/edit",
			want: "1aB2cD3eF4gH5iJ6kL7m",
		},
		{
			name: "published wins over editor pattern",
			url:  "https://docs.google.com/forms/d/e/published_token_0123456789/viewform",
			want: "published_token_0123456789",
		},
		{
			name: "longest opaque token in path",
			url:  "https://example.com/surveys/abcdef/run_9f8e7d6c5b4a39281706f5e4",
			want: "run_9f8e7d6c5b4a39281706f5e4",
		},
		{
			name: "opaque token in query",
			url:  "https://example.com/view?form=tok_abcdefghij0123456789",
			want: "tok_abcdefghij0123456789",
		},
		{
			name: "no token",
			url:  "https://example.com/short",
			want: models.SourceIDUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveSourceID(tt.url)
			if err != nil {
				t.Fatalf("DeriveSourceID(%q): %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("DeriveSourceID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDeriveSourceID_Invalid(t *testing.T) {
	for _, url := range []string{
		"not a url",
		"ftp://example.com/forms/d/e/1FAIpQLSdV9sQxTz8KbW2mJr4",
		"/forms/d/e/1FAIpQLSdV9sQxTz8KbW2mJr4/viewform",
		"",
	} {
		_, err := DeriveSourceID(url)
		if models.CodeOf(err) != models.ErrCodeInvalidSourceURL {
			t.Errorf("DeriveSourceID(%q) err = %v, want INVALID_SOURCE_URL", url, err)
		}
	}
}
