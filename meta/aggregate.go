package meta

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// ReferenceAssemblies lists the per-assembly partitions aligned to one
// reference.
type ReferenceAssemblies struct {
	// RefPath is the corrected reference file.
	RefPath string
	// Assemblies holds at most one partition per label, ordered by label.
	Assemblies []Assembly
}

// PartitionContigs runs PartitionAssembly for every assembly, using at most
// min(opts.MaxParallelism, len(assemblies)) concurrent jobs, and merges the
// results with AggregatePartitions. The first failing job fails the call.
//
// refPaths are the corrected reference files returned by
// CorrectReferences; a reference is identified by NameFromPath of its path.
func PartitionContigs(ctx context.Context, assemblies []Assembly, refPaths, labels []string, cfg PartitionConfig, opts Opts) ([]ReferenceAssemblies, []Assembly, error) {
	refNames := make([]string, len(refPaths))
	for i, path := range refPaths {
		refNames[i] = NameFromPath(path)
	}
	results := make([]PartitionResult, len(assemblies))
	if len(assemblies) > 0 {
		parallelism := opts.parallelism(len(assemblies))
		log.Printf("Partitioning %d assemblies (%d jobs)", len(assemblies), parallelism)
		err := traverse.Limit(parallelism).Each(len(assemblies), func(i int) error {
			var err error
			results[i], err = PartitionAssembly(ctx, assemblies[i], refNames, cfg)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
	}
	byRef, notAligned := AggregatePartitions(results, refPaths, labels)
	return byRef, notAligned, nil
}

// AggregatePartitions merges per-assembly results. For each reference in
// refPaths it collects the partitions of every result, drops repeats of the
// same file, and orders them by labels: for each label, the first partition
// carrying it is kept. Partitions whose label is not in labels are dropped.
// The not-aligned assemblies are returned in result order.
func AggregatePartitions(results []PartitionResult, refPaths, labels []string) ([]ReferenceAssemblies, []Assembly) {
	byRef := make([]ReferenceAssemblies, len(refPaths))
	for i, refPath := range refPaths {
		refName := NameFromPath(refPath)
		var (
			found []Assembly
			seen  = map[string]bool{}
		)
		for _, res := range results {
			for _, asm := range res.ByRef[refName] {
				if !seen[asm.Name] {
					seen[asm.Name] = true
					found = append(found, asm)
				}
			}
		}
		sorted := []Assembly{}
		for _, label := range labels {
			for _, asm := range found {
				if asm.Label == label {
					sorted = append(sorted, asm)
					break
				}
			}
		}
		if n := len(found) - len(sorted); n > 0 {
			log.Debug.Printf("%s: %d partitions without a matching label", refName, n)
		}
		byRef[i] = ReferenceAssemblies{RefPath: refPath, Assemblies: sorted}
	}
	notAligned := make([]Assembly, len(results))
	for i, res := range results {
		notAligned[i] = res.NotAligned
	}
	return byRef, notAligned
}
