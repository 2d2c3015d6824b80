package engine

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/evaly/formimport/models"
)

// Known URL shapes, most specific first. The published-form shape must be
// checked before the editor shape because its path also contains /forms/d/.
var (
	rePublishedForm = regexp.MustCompile(`/forms/d/e/([A-Za-z0-9_-]{16,})`)
	reEditorForm    = regexp.MustCompile(`/forms/d/([A-Za-z0-9_-]{16,})`)
	reOpaqueToken   = regexp.MustCompile(`[A-Za-z0-9_-]{16,}`)
)

// DeriveSourceID derives the stable identifier used for duplicate
// detection. Known URL shapes are pattern-matched first; otherwise the
// longest opaque token anywhere in the URL is used, and SourceIDUnknown is
// returned when there is none. Only a structurally invalid URL is an error.
func DeriveSourceID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", models.NewExtractError(
			models.ErrCodeInvalidSourceURL,
			fmt.Sprintf("not an absolute http(s) URL: %q", rawURL),
			err,
		)
	}

	if m := rePublishedForm.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}
	if m := reEditorForm.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}

	longest := ""
	for _, tok := range reOpaqueToken.FindAllString(u.Path+" "+u.RawQuery, -1) {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	if longest != "" {
		return longest, nil
	}
	return models.SourceIDUnknown, nil
}
