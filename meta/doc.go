// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package meta splits genome assemblies by the reference genomes their
// contigs align to, for evaluating assemblies against several references
// at once.
//
// The work happens in three phases which must run in this order:
//
//   1. CorrectReferences renames the chromosomes of every reference FASTA,
//      writes one corrected file per reference plus a combined file, and
//      builds the ChromosomeIndex that maps each corrected chromosome name
//      to its reference.
//
//   2. PartitionContigs reads, for every assembly, a text file listing the
//      contigs aligned to each chromosome (produced by an external aligner),
//      and writes one FASTA file per (assembly, reference) pair plus one
//      file of contigs that aligned nowhere. Assemblies are processed in
//      parallel.
//
//   3. Optionally, FilterDownloadedReferences drops references whose
//      chromosomes are poorly covered according to a genome-info report.
package meta
