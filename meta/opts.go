package meta

import "runtime"

// Opts configures reference correction and contig partitioning.
type Opts struct {
	// MaxParallelism caps the number of assemblies partitioned concurrently.
	// Values <= 0 mean runtime.NumCPU().
	MaxParallelism int
	// NoCheck disables validation of reference sequences.
	NoCheck bool
	// CombinedRefName is the file name, inside the corrected directory, of
	// the FASTA file holding every corrected reference chromosome.
	CombinedRefName string
	// IndexCombinedRef causes a samtools-style .fai index to be written next
	// to the combined reference.
	IndexCombinedRef bool
	// DownloadedRefMinAlignedRate is the fraction of a downloaded reference
	// that must be covered by alignments for the reference to be kept.
	DownloadedRefMinAlignedRate float64
	// CorrectedDirName is the subdirectory of the output directory that
	// receives corrected and partitioned FASTA files.
	CorrectedDirName string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MaxParallelism:              0,
	NoCheck:                     false,
	CombinedRefName:             "combined_reference.fasta",
	IndexCombinedRef:            true,
	DownloadedRefMinAlignedRate: 0.1,
	CorrectedDirName:            "quast_corrected_input",
}

// parallelism returns the worker pool size for n independent jobs.
func (o Opts) parallelism(n int) int {
	p := o.MaxParallelism
	if p <= 0 {
		p = runtime.NumCPU()
	}
	if n < p {
		p = n
	}
	return p
}
