package main

// bio-metapartition prepares multi-reference assembly evaluation.
//
// Example 1: correct references only.
//
//    bio-metapartition correct --out=/tmp/eval ref1.fa ref2.fa.gz
//
// Example 2: correct references, then split assemblies by the references
// their contigs align to. Alignment files are looked up through a template
// in which %s is replaced by the assembly label (spaces become '_').
//
//    bio-metapartition partition --out=/tmp/eval \
//      --references=ref1.fa,ref2.fa \
//      --assemblies=spades.fasta,velvet.fasta --labels=SPAdes,Velvet \
//      --alignments=/tmp/eval/contigs_reports/alignments_%s.tsv

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/metaref/meta"
	"v.io/x/lib/cmdline"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	outDir          *string
	noCheck         *bool
	combinedRefName *string
	correctedDir    *string
}

func registerCommonFlags(cmd *cmdline.Command) commonFlags {
	return commonFlags{
		outDir:          cmd.Flags.String("out", ".", "Output directory."),
		noCheck:         cmd.Flags.Bool("no-check", meta.DefaultOpts.NoCheck, "Do not check reference sequences for non-ACGTN characters."),
		combinedRefName: cmd.Flags.String("combined-ref-name", meta.DefaultOpts.CombinedRefName, "File name of the combined reference."),
		correctedDir:    cmd.Flags.String("corrected-dir", meta.DefaultOpts.CorrectedDirName, "Subdirectory of --out that receives corrected files."),
	}
}

func (f commonFlags) opts() meta.Opts {
	opts := meta.DefaultOpts
	opts.NoCheck = *f.noCheck
	opts.CombinedRefName = *f.combinedRefName
	opts.CorrectedDirName = *f.correctedDir
	return opts
}

func (f commonFlags) correctedPath() string {
	return filepath.Join(*f.outDir, *f.correctedDir)
}

func splitList(s string) []string {
	var l []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			l = append(l, e)
		}
	}
	return l
}

func newCmdCorrect() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "correct",
		Short:    "Rename reference sequences and combine the references into one file",
		ArgsName: "reference...",
	}
	flags := registerCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("correct takes at least one reference path")
		}
		ctx := vcontext.Background()
		refs, err := meta.CorrectReferences(ctx, argv, flags.correctedPath(), nil, flags.opts())
		if err != nil {
			return err
		}
		printReferences(env.Stdout, refs)
		return nil
	})
	return cmd
}

func printReferences(w io.Writer, refs *meta.References) {
	fmt.Fprintf(w, "combined\t%s\n", refs.CombinedPath)
	for _, path := range refs.CorrectedPaths {
		fmt.Fprintf(w, "reference\t%s\n", path)
	}
}

func newCmdPartition() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "partition",
		Short: "Split assemblies by the reference each contig aligns to",
	}
	flags := registerCommonFlags(cmd)
	var (
		references     = cmd.Flags.String("references", "", "Comma-separated list of reference FASTA files.")
		assemblies     = cmd.Flags.String("assemblies", "", "Comma-separated list of assembly FASTA files.")
		labels         = cmd.Flags.String("labels", "", "Comma-separated assembly labels. Defaults to the file names.")
		alignments     = cmd.Flags.String("alignments", "", "Alignment file template. %s is replaced by the assembly label.")
		genomeInfo     = cmd.Flags.String("genome-info", "", "If set, keep only references sufficiently covered according to this genome-info report.")
		minAlignedRate = cmd.Flags.Float64("min-aligned-rate", meta.DefaultOpts.DownloadedRefMinAlignedRate, "Minimum aligned fraction of a reference for --genome-info.")
		parallelism    = cmd.Flags.Int("parallelism", meta.DefaultOpts.MaxParallelism, "Max number of assemblies processed concurrently. <= 0 means #CPUs.")
	)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("partition takes no positional arguments, but got %v", argv)
		}
		refPaths, asmPaths := splitList(*references), splitList(*assemblies)
		if len(refPaths) == 0 || len(asmPaths) == 0 {
			return fmt.Errorf("--references and --assemblies must be set")
		}
		if !strings.Contains(*alignments, "%s") {
			return fmt.Errorf("--alignments must contain %%s, but got %q", *alignments)
		}
		opts := flags.opts()
		opts.DownloadedRefMinAlignedRate = *minAlignedRate
		opts.MaxParallelism = *parallelism

		ctx := vcontext.Background()
		correctedDir := flags.correctedPath()
		refs, err := meta.CorrectReferences(ctx, refPaths, correctedDir, nil, opts)
		if err != nil {
			return err
		}
		printReferences(env.Stdout, refs)

		asms, order := meta.NewAssemblies(asmPaths, splitList(*labels))
		cfg := meta.PartitionConfig{
			CorrectedDir:       correctedDir,
			AlignmentsTemplate: *alignments,
			Index:              refs.Index,
		}
		byRef, notAligned, err := meta.PartitionContigs(ctx, asms, refs.CorrectedPaths, order, cfg, opts)
		if err != nil {
			return err
		}
		for _, r := range byRef {
			for _, asm := range r.Assemblies {
				fmt.Fprintf(env.Stdout, "aligned\t%s\t%s\t%s\n", r.RefPath, asm.Label, asm.Path)
			}
		}
		for _, asm := range notAligned {
			fmt.Fprintf(env.Stdout, "not_aligned\t%s\t%s\n", asm.Label, asm.Path)
		}

		if *genomeInfo != "" {
			kept, err := meta.FilterDownloadedReferences(ctx, *genomeInfo, refs.InputPaths, refs.Chromosomes, opts)
			if err != nil {
				return err
			}
			log.Printf("%d of %d references pass the aligned-rate filter", len(kept), len(refPaths))
			for _, path := range kept {
				fmt.Fprintf(env.Stdout, "kept\t%s\n", path)
			}
		}
		return nil
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-metapartition",
			Short:    "Tools for evaluating assemblies against multiple references",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdCorrect(),
				newCmdPartition(),
			},
		})
}
