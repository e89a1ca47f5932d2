// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ugcPolicy allows the limited formatting members may use in idea and
// project summaries. Policies are safe for concurrent use.
var ugcPolicy = bluemonday.UGCPolicy()

// strictPolicy strips all markup; used for titles, tags, and comment bodies.
var strictPolicy = bluemonday.StrictPolicy()

// Summary sanitizes rich-text summary fields, keeping basic formatting
// (links, lists, emphasis) and stripping scripts and event handlers.
func Summary(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// Plain strips all HTML from single-line fields.
func Plain(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// PlainAll applies Plain to each element of a list.
func PlainAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if p := Plain(s); p != "" {
			out = append(out, p)
		}
	}
	return out
}
