package meta

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Columns of a genome-info report row.
const (
	genomeInfoNameCol    = 0
	genomeInfoTotalCol   = 3
	genomeInfoAlignedCol = 8
)

// chromCoverage is the total and aligned length of one chromosome.
type chromCoverage struct {
	total, aligned int64
}

// readGenomeInfo parses a genome-info report. The first line is a header;
// each following line describes one chromosome with whitespace-separated
// fields. Reading stops at the first blank line.
func readGenomeInfo(r io.Reader) (map[string]chromCoverage, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	cov := map[string]chromCoverage{}
	if !sc.Scan() {
		return cov, sc.Err()
	}
	for lineno := 2; sc.Scan(); lineno++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			break
		}
		if len(fields) <= genomeInfoAlignedCol {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: got %d fields, want at least %d", lineno, len(fields), genomeInfoAlignedCol+1))
		}
		total, err := strconv.ParseInt(fields[genomeInfoTotalCol], 10, 64)
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("line %d", lineno))
		}
		aligned, err := strconv.ParseInt(fields[genomeInfoAlignedCol], 10, 64)
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("line %d", lineno))
		}
		cov[fields[genomeInfoNameCol]] = chromCoverage{total: total, aligned: aligned}
	}
	return cov, sc.Err()
}

// FilterDownloadedReferences returns the references in refPaths whose
// chromosomes are covered well enough according to the genome-info report
// at genomeInfoPath. For each reference, total and aligned lengths are
// summed over its chromosomes (see References.Chromosomes) found in the
// report. A reference is kept if its aligned length is nonzero and exceeds
// opts.DownloadedRefMinAlignedRate times its total length.
//
// refPaths must be the paths given to CorrectReferences, so that reference
// names are derived the same way.
func FilterDownloadedReferences(ctx context.Context, genomeInfoPath string, refPaths []string, chromosomes map[string][]Chromosome, opts Opts) ([]string, error) {
	in, err := file.Open(ctx, genomeInfoPath)
	if err != nil {
		return nil, errors.E(err, "open", genomeInfoPath)
	}
	cov, err := readGenomeInfo(in.Reader(ctx))
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.E(err, "read", genomeInfoPath)
	}

	var kept []string
	for i, name := range referenceNames(refPaths) {
		var total, aligned int64
		for _, chrom := range chromosomes[name] {
			if c, ok := cov[chrom.Name]; ok {
				total += c.total
				aligned += c.aligned
			}
		}
		if aligned == 0 {
			log.Debug.Printf("%s: no aligned bases, dropped", refPaths[i])
			continue
		}
		if float64(aligned) > float64(total)*opts.DownloadedRefMinAlignedRate {
			kept = append(kept, refPaths[i])
		}
	}
	return kept, nil
}
