package meta

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// maxAlignmentLineLen bounds one line of an alignment file. A line lists
// every contig aligned to one chromosome.
const maxAlignmentLineLen = 256 << 20

// AlignmentRecord is one line of an alignment file: a chromosome and the
// contigs aligned to it.
type AlignmentRecord struct {
	Chromosome string
	Contigs    []string
}

// PartitionConfig locates the inputs and outputs of contig partitioning.
type PartitionConfig struct {
	// CorrectedDir receives the partitioned FASTA files.
	CorrectedDir string
	// AlignmentsTemplate is a fmt format with a single %s verb, which is
	// replaced by an assembly's corrected label to get its alignment file.
	AlignmentsTemplate string
	// Index resolves chromosome names found in alignment files.
	Index *ChromosomeIndex
}

// PartitionResult is the outcome of partitioning one assembly.
type PartitionResult struct {
	// ByRef lists, for every known reference with at least one aligned
	// contig, the assembly made of those contigs.
	ByRef map[string][]Assembly
	// NotAligned is the assembly of contigs that aligned to no reference.
	NotAligned Assembly
}

// correctLabel makes an assembly label usable in file names.
func correctLabel(label string) string {
	return strings.Replace(label, " ", "_", -1)
}

func partitionPath(dir, label, ref string) string {
	return filepath.Join(dir, label+"_to_"+ref+".fasta")
}

// partitionRefs returns refNames followed by the other references of index.
func partitionRefs(refNames []string, index *ChromosomeIndex) []string {
	refs := append([]string(nil), refNames...)
	seen := make(map[string]bool, len(refNames))
	for _, ref := range refNames {
		seen[ref] = true
	}
	for _, ref := range index.References() {
		if !seen[ref] {
			refs = append(refs, ref)
		}
	}
	return refs
}

// PartitionAssembly splits the contigs of asm by reference. For every
// chromosome line of the assembly's alignment file whose chromosome is in
// cfg.Index, the listed contigs are appended to
// "<label>_to_<reference>.fasta" in cfg.CorrectedDir, each contig at most
// once per reference. Contigs aligned nowhere go to
// "<label>_not_aligned_anywhere.fasta". Output files of an earlier run for
// the same label are removed or truncated first, for every reference in
// refNames or cfg.Index.
//
// A missing alignment file means no contig aligned. Lines naming unknown
// chromosomes and contig names absent from the assembly are skipped.
// Only references listed in refNames are reported in the result.
func PartitionAssembly(ctx context.Context, asm Assembly, refNames []string, cfg PartitionConfig) (_ PartitionResult, err error) {
	label := correctLabel(asm.Label)
	log.Printf("  processing %s", asm.Label)
	known := make(map[string]bool, len(refNames))
	for _, name := range refNames {
		known[name] = true
	}
	res := PartitionResult{ByRef: map[string][]Assembly{}}
	var (
		store   = NewSequenceStore(asm.Path)
		aligned = map[string]bool{}
		byRef   = map[string]map[string]bool{}
		outs    = map[string]*fastaOutput{}
		order   []string // references in outs, by creation
	)
	defer func() {
		if err != nil {
			for _, out := range outs {
				out.discard(ctx)
			}
		}
	}()

	// Per-reference files are created on first use, so clear those left by
	// an earlier run first.
	for _, ref := range partitionRefs(refNames, cfg.Index) {
		if err = removeFile(ctx, partitionPath(cfg.CorrectedDir, label, ref)); err != nil {
			return res, err
		}
	}

	alnPath := fmt.Sprintf(cfg.AlignmentsTemplate, label)
	exists, err := fileExists(ctx, alnPath)
	if err != nil {
		return res, err
	}
	if exists {
		err = readAlignments(ctx, alnPath, func(rec AlignmentRecord) error {
			ref, ok := cfg.Index.Reference(rec.Chromosome)
			if !ok {
				log.Debug.Printf("%s: skipping unknown chromosome %s", alnPath, rec.Chromosome)
				return nil
			}
			seen := byRef[ref]
			if seen == nil {
				seen = map[string]bool{}
				byRef[ref] = seen
			}
			for _, contig := range rec.Contigs {
				if seen[contig] {
					continue
				}
				seq, ok, err := store.Seq(ctx, contig)
				if err != nil {
					return err
				}
				if !ok {
					log.Debug.Printf("%s: contig %s not found in %s", alnPath, contig, asm.Path)
					continue
				}
				out := outs[ref]
				if out == nil {
					path := partitionPath(cfg.CorrectedDir, label, ref)
					if out, err = createFasta(ctx, path); err != nil {
						return err
					}
					outs[ref] = out
					order = append(order, ref)
					if known[ref] {
						res.ByRef[ref] = append(res.ByRef[ref], NewAssembly(path, asm.Label))
					}
				}
				if err := out.Write(contig, seq); err != nil {
					return err
				}
				seen[contig] = true
				aligned[contig] = true
			}
			return nil
		})
		if err != nil {
			return res, err
		}
	}
	for _, ref := range order {
		out := outs[ref]
		delete(outs, ref)
		if err = out.Close(ctx); err != nil {
			return res, err
		}
	}

	names, err := store.Names(ctx)
	if err != nil {
		return res, err
	}
	notAlignedPath := filepath.Join(cfg.CorrectedDir, label+"_not_aligned_anywhere.fasta")
	out, err := createFasta(ctx, notAlignedPath)
	if err != nil {
		return res, err
	}
	for _, name := range names {
		if aligned[name] {
			continue
		}
		seq, _, err := store.Seq(ctx, name)
		if err == nil {
			err = out.Write(name, seq)
		}
		if err != nil {
			out.discard(ctx)
			return res, err
		}
	}
	if err = out.Close(ctx); err != nil {
		return res, err
	}
	res.NotAligned = NewAssembly(notAlignedPath, asm.Label)
	return res, nil
}

// readAlignments calls fn for every nonblank line of the alignment file at
// path, in order.
func readAlignments(ctx context.Context, path string, fn func(AlignmentRecord) error) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	sc := bufio.NewScanner(in.Reader(ctx))
	sc.Buffer(nil, maxAlignmentLineLen)
	e := errors.Once{}
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(AlignmentRecord{Chromosome: fields[0], Contigs: fields[1:]}); err != nil {
			e.Set(err)
			break
		}
	}
	if err := sc.Err(); err != nil {
		e.Set(errors.E(err, "read", path))
	}
	e.Set(in.Close(ctx))
	return e.Err()
}
