// internal/app/system/limits/limits.go
package limits

// Domain limits enforced by the idea and project workflows.
const (
	// MaxIdeasPerDay is the idea-creation quota per user per calendar day.
	MaxIdeasPerDay = 5

	// TeamSizeMin and TeamSizeMax bound Project.TeamSize (creator included).
	TeamSizeMin = 1
	TeamSizeMax = 50

	// MaxTitleLen bounds idea and project titles.
	MaxTitleLen = 200

	// MaxSummaryLen bounds idea/project summaries and comment bodies.
	MaxSummaryLen = 10_000

	// MaxTags bounds the tag and skills-required lists.
	MaxTags = 20
)

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxMediaUploadSize is the maximum size for one idea media attachment.
	MaxMediaUploadSize = 10 << 20 // 10 MB
)
