package domain

// SourceFile is a tracked source file and its child test cases. Identity is
// the absolute path. Resolved flips true on the first successful parse;
// later on-demand resolves are skipped and freshness relies on watcher-driven
// reconciliation.
type SourceFile struct {
	Path     string // absolute path, identity
	Label    string // base name shown in the tree
	Resolved bool
	HasTests bool
	Err      error // last read failure, surfaced instead of thrown
	Tests    []*TestCase
}

// Test returns the child test case with the given name, or nil.
func (f *SourceFile) Test(name string) *TestCase {
	for _, t := range f.Tests {
		if t.Name == name {
			return t
		}
	}
	return nil
}
