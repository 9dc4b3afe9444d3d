package meta

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/grailbio/base/log"
	"github.com/grailbio/metaref/encoding/fasta"
)

// maxSeqNameLen is the number of characters of an original sequence name
// kept in a corrected chromosome name.
const maxSeqNameLen = 20

// Chromosome is one corrected reference sequence.
type Chromosome struct {
	// Name is the corrected sequence name, unique within the combined
	// reference.
	Name string
	// Len is the sequence length in bases.
	Len int
}

// References is the result of CorrectReferences.
type References struct {
	// CorrectedPaths lists one corrected FASTA file per reference that had
	// at least one accepted sequence, in input order.
	CorrectedPaths []string
	// CombinedPath is the FASTA file holding every corrected sequence.
	CombinedPath string
	// Chromosomes lists the accepted chromosomes of each reference, in file
	// order, keyed by reference name. Every input reference has an entry,
	// possibly empty.
	Chromosomes map[string][]Chromosome
	// InputPaths is the list of reference paths given to CorrectReferences.
	InputPaths []string
	// Index maps every corrected chromosome name to the name of its
	// corrected reference file (see NameFromPath).
	Index *ChromosomeIndex
}

// CorrectReferences copies every reference FASTA in refPaths into
// correctedDir under a unique, file-system safe name, renaming each
// sequence to "<corrected reference name>_<original name>" so that names
// are unique across references. All sequences are also written to the
// combined reference opts.CombinedRefName.
//
// Unless opts.NoCheck is set, each sequence is checked with v (or
// DefaultValidator if v is nil). A rejected sequence stops the processing
// of its reference; the sequences accepted before it are kept.
//
// References are processed sequentially, and the returned index is complete
// when CorrectReferences returns, so it must run before PartitionContigs.
func CorrectReferences(ctx context.Context, refPaths []string, correctedDir string, v Validator, opts Opts) (_ *References, err error) {
	if v == nil {
		v = DefaultValidator
	}
	refs := &References{
		CombinedPath: filepath.Join(correctedDir, opts.CombinedRefName),
		Chromosomes:  make(map[string][]Chromosome, len(refPaths)),
		InputPaths:   refPaths,
	}
	chromRefs := map[string]string{}
	combined, err := createFasta(ctx, refs.CombinedPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			combined.discard(ctx)
		}
	}()

	names := referenceNames(refPaths)
	for i, refPath := range refPaths {
		refName := names[i]
		_, ext := SplitFastaExt(filepath.Base(refPath))
		if ext == "" {
			ext = ".fasta"
		}
		refs.Chromosomes[refName] = []Chromosome{}

		var (
			out      *fastaOutput
			corrName string
		)
		err = readFasta(ctx, refPath, func(r io.Reader) error {
			sc := fasta.NewScanner(r)
			var rec fasta.Record
			for sc.Scan(&rec) {
				if !opts.NoCheck && !v.Accept(rec.Seq) {
					log.Error.Printf("Skipping %s because it contains non-ACGTN characters.", refPath)
					return nil
				}
				if out == nil {
					// All sequences of one reference share the file chosen for
					// its first sequence. The combined file is not visible on
					// disk until it is closed.
					path, err := UniqueCorrectedPath(ctx, filepath.Join(correctedDir, refName+ext), refs.CombinedPath)
					if err != nil {
						return err
					}
					if out, err = createFasta(ctx, path); err != nil {
						return err
					}
					corrName = NameFromPath(path)
				}
				seqName := rec.Name
				if utf8.RuneCountInString(seqName) > maxSeqNameLen {
					seqName = string([]rune(seqName)[:maxSeqNameLen])
				}
				chrom := corrName + "_" + CorrectName(seqName)
				if _, ok := chromRefs[chrom]; ok {
					// Repeated or truncated-to-equal names.
					base := chrom
					for n := 2; ok; n++ {
						chrom = fmt.Sprintf("%s_%d", base, n)
						_, ok = chromRefs[chrom]
					}
				}
				if err := out.Write(chrom, rec.Seq); err != nil {
					return err
				}
				if err := combined.Write(chrom, rec.Seq); err != nil {
					return err
				}
				chromRefs[chrom] = corrName
				refs.Chromosomes[refName] = append(refs.Chromosomes[refName], Chromosome{Name: chrom, Len: len(rec.Seq)})
			}
			return sc.Err()
		})
		if out != nil {
			if err != nil {
				out.discard(ctx)
				return nil, err
			}
			if err = out.Close(ctx); err != nil {
				return nil, err
			}
			refs.CorrectedPaths = append(refs.CorrectedPaths, out.path)
			log.Printf("  %s ==> %s", refPath, corrName)
		}
		if err != nil {
			return nil, err
		}
	}
	err = combined.Close(ctx)
	combined = nil
	if err != nil {
		return nil, err
	}
	log.Printf("  All references combined in %s", opts.CombinedRefName)
	if opts.IndexCombinedRef && len(chromRefs) > 0 {
		if err := fasta.GenerateIndexFile(ctx, refs.CombinedPath); err != nil {
			return nil, err
		}
	}
	refs.Index = NewChromosomeIndex(chromRefs)
	return refs, nil
}
