package tenantdir

import "strings"

// similarityThreshold is the minimum normalized edit-distance similarity for
// a fuzzy match to be accepted.
const similarityThreshold = 0.6

// strategy is one resolution stage. Returns the tenant id and whether it
// matched.
type strategy func(d *Directory, normalized string) (string, bool)

// strategies are evaluated in order; the first success wins. The explicit
// list keeps precedence auditable and lets each stage be tested in isolation.
var strategies = []strategy{
	exactMatch,
	containmentMatch,
	similarityMatch,
}

// Resolver resolves raw member input against a directory.
type Resolver struct {
	dir *Directory
}

// NewResolver creates a resolver over the given directory.
func NewResolver(dir *Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Directory returns the underlying directory.
func (r *Resolver) Directory() *Directory {
	return r.dir
}

// Resolve normalizes rawInput and runs the resolution stages in order.
// Returns the canonical tenant id, or "" when no stage matches; the caller
// falls back to free-text extraction before giving up.
func (r *Resolver) Resolve(rawInput string) string {
	normalized := Normalize(rawInput)
	if normalized == "" {
		return ""
	}
	for _, s := range strategies {
		if id, ok := s(r.dir, normalized); ok {
			return id
		}
	}
	return ""
}

// Normalize uppercases the input and strips every non-alphanumeric rune.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// exactMatch: normalized input equals a directory key.
func exactMatch(d *Directory, normalized string) (string, bool) {
	return d.Lookup(normalized)
}

// containmentMatch: the input contains a key or a key contains the input.
// Handles partial mentions ("I'm from FUSION sacco") and short forms.
func containmentMatch(d *Directory, normalized string) (string, bool) {
	for _, e := range d.Entries() {
		if strings.Contains(normalized, e.Key) || strings.Contains(e.Key, normalized) {
			return e.ID, true
		}
	}
	return "", false
}

// similarityMatch: highest normalized Levenshtein similarity above the
// threshold wins; ties break to the earlier directory entry.
func similarityMatch(d *Directory, normalized string) (string, bool) {
	bestID := ""
	bestScore := 0.0
	for _, e := range d.Entries() {
		score := similarity(normalized, e.Key)
		if score > bestScore {
			bestScore = score
			bestID = e.ID
		}
	}
	if bestScore > similarityThreshold {
		return bestID, true
	}
	return "", false
}

// similarity computes 1 - levenshtein(a,b)/max(len(a),len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two ASCII-normalized
// strings using the two-row dynamic programming form.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
