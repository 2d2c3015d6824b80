package analytics

import "strings"

// AnalyticsURL maps a form URL onto its response-summary variant. The
// summary page shares the form's path with the final segment replaced.
func AnalyticsURL(rawURL string) string {
	if strings.Contains(rawURL, "/viewform") {
		return strings.Replace(rawURL, "/viewform", "/viewanalytics", 1)
	}
	if strings.Contains(rawURL, "/viewanalytics") {
		return rawURL
	}
	return strings.TrimRight(rawURL, "/") + "/viewanalytics"
}
