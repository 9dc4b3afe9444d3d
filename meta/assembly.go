package meta

import "path/filepath"

// Assembly is one FASTA file of contigs together with its display label.
type Assembly struct {
	// Path is the FASTA file path.
	Path string
	// Label is the name shown to users. It orders assemblies in reports.
	Label string
	// Name is the file name of Path without its extension. Two Assembly
	// values with the same Name refer to the same file.
	Name string
}

// NewAssembly creates an Assembly for the file at path.
func NewAssembly(path, label string) Assembly {
	return Assembly{Path: path, Label: label, Name: NameFromPath(path)}
}

// NewAssemblies creates one Assembly per path. Labels[i], if present and
// nonempty, labels paths[i]; otherwise the label is the file name without
// its FASTA extension. The second return value lists the labels in input
// order, for use with PartitionContigs.
func NewAssemblies(paths, labels []string) ([]Assembly, []string) {
	asms := make([]Assembly, len(paths))
	order := make([]string, len(paths))
	for i, path := range paths {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if label == "" {
			label, _ = SplitFastaExt(filepath.Base(path))
		}
		asms[i] = NewAssembly(path, label)
		order[i] = label
	}
	return asms, order
}
