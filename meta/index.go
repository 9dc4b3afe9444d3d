package meta

import "sort"

// ChromosomeIndex maps corrected chromosome names to the name of the
// corrected reference that holds them. It is built by CorrectReferences
// and is read-only afterwards, so it can be shared by concurrent
// partitioning jobs.
type ChromosomeIndex struct {
	refs map[string]string
}

// NewChromosomeIndex creates an index from a chromosome -> reference map.
// The map is copied.
func NewChromosomeIndex(refs map[string]string) *ChromosomeIndex {
	x := &ChromosomeIndex{refs: make(map[string]string, len(refs))}
	for chrom, ref := range refs {
		x.refs[chrom] = ref
	}
	return x
}

// Reference returns the reference that owns chrom.
func (x *ChromosomeIndex) Reference(chrom string) (string, bool) {
	if x == nil {
		return "", false
	}
	ref, ok := x.refs[chrom]
	return ref, ok
}

// Len returns the number of registered chromosomes.
func (x *ChromosomeIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.refs)
}

// References returns the distinct reference names of the index, sorted.
func (x *ChromosomeIndex) References() []string {
	if x == nil {
		return nil
	}
	seen := map[string]bool{}
	var refs []string
	for _, ref := range x.refs {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs
}
