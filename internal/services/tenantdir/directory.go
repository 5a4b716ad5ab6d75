// Package tenantdir resolves free-text cooperative names to canonical tenant
// identifiers.
package tenantdir

// Entry maps a normalized directory key to a canonical tenant id. Several
// keys may map to the same id; aliasing is expected, not an error.
type Entry struct {
	Key string
	ID  string
}

// defaultEntries is the built-in cooperative directory. Keys are uppercase
// alphanumeric (pre-normalized). Order matters: similarity ties resolve to
// the first entry.
var defaultEntries = []Entry{
	{Key: "FUSION", ID: "fusion"},
	{Key: "IMMIGRATION", ID: "immigration"},
	{Key: "IMMIGRATIONMCS", ID: "immigration"},
	{Key: "MAGEREZA", ID: "magereza"},
	{Key: "UKULIMA", ID: "ukulima"},
	{Key: "STIMA", ID: "stima"},
	{Key: "HAZINA", ID: "hazina"},
	{Key: "SHERIA", ID: "sheria"},
	{Key: "AFYA", ID: "afya"},
}

// Directory is an ordered tenant-name table.
type Directory struct {
	entries []Entry
}

// NewDirectory returns the built-in directory.
func NewDirectory() *Directory {
	return &Directory{entries: defaultEntries}
}

// NewDirectoryWith returns a directory over the given entries, in order.
func NewDirectoryWith(entries []Entry) *Directory {
	return &Directory{entries: entries}
}

// Entries returns the directory entries in order.
func (d *Directory) Entries() []Entry {
	return d.entries
}

// CanonicalNames returns every directory key in order. Used as the candidate
// list for free-text extraction and for example prompts.
func (d *Directory) CanonicalNames() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Key
	}
	return names
}

// ExampleNames returns up to n keys for "for example: ..." prompts.
func (d *Directory) ExampleNames(n int) []string {
	names := d.CanonicalNames()
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// Lookup returns the id mapped to an exact normalized key.
func (d *Directory) Lookup(key string) (string, bool) {
	for _, e := range d.entries {
		if e.Key == key {
			return e.ID, true
		}
	}
	return "", false
}
