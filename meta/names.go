package meta

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

var (
	archiveExts = []string{".zip", ".gz", ".gzip", ".bz2", ".bzip2"}
	fastaExts   = []string{".fa", ".fasta", ".fas", ".seq", ".fna", ".contig"}
)

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// SplitFastaExt splits a FASTA file name into its base name and FASTA
// extension. An archive extension such as ".gz" is dropped first. Unknown
// extensions are left in the base name, and the returned extension is empty.
//
//   SplitFastaExt("ecoli.fa.gz") == ("ecoli", ".fa")
//   SplitFastaExt("ecoli.txt")   == ("ecoli.txt", "")
func SplitFastaExt(fname string) (base, ext string) {
	inner := fname
	if e := filepath.Ext(fname); hasExt(archiveExts, e) {
		inner = strings.TrimSuffix(fname, e)
	}
	if e := filepath.Ext(inner); hasExt(fastaExts, e) {
		return strings.TrimSuffix(inner, e), e
	}
	return inner, ""
}

// NameFromPath returns the file name of path with its last extension
// removed.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LabelFromParentDir returns "<parent directory>_<name>", where name is the
// base name of path without its FASTA extension.
func LabelFromParentDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name, _ := SplitFastaExt(filepath.Base(path))
	return filepath.Base(filepath.Dir(abs)) + "_" + name
}

func isNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-', r == '+', r == '|':
		return true
	}
	return false
}

// CorrectName makes name safe to use as a file name or a FASTA sequence
// name: surrounding whitespace is trimmed and every other character outside
// [A-Za-z0-9_.+|-] becomes '_'.
func CorrectName(name string) string {
	return strings.Map(func(r rune) rune {
		if isNameChar(r) {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
}

// UniqueCorrectedPath corrects the file name of path and, if a file already
// exists there or the path is one of taken, inserts "__1", "__2", ... before
// the extension until the path is free.
func UniqueCorrectedPath(ctx context.Context, path string, taken ...string) (string, error) {
	dir := filepath.Dir(path)
	fname := CorrectName(filepath.Base(path))
	ext := filepath.Ext(fname)
	stem := strings.TrimSuffix(fname, ext)
	candidate := filepath.Join(dir, fname)
	for i := 1; ; i++ {
		exists, err := fileExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		for _, p := range taken {
			exists = exists || p == candidate
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s__%d%s", stem, i, ext))
	}
}

func fileExists(ctx context.Context, path string) (bool, error) {
	_, err := file.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(errors.NotExist, err) || os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.E(err, "stat", path)
}

// removeFile removes path. A missing file is not an error.
func removeFile(ctx context.Context, path string) error {
	exists, err := fileExists(ctx, path)
	if err != nil || !exists {
		return err
	}
	if err := file.Remove(ctx, path); err != nil {
		return errors.E(err, "remove", path)
	}
	return nil
}

// referenceNames derives the display name of every reference file. Names
// shared by several files are qualified with the parent directory of each.
func referenceNames(refPaths []string) []string {
	names := make([]string, len(refPaths))
	count := map[string]int{}
	for i, path := range refPaths {
		names[i], _ = SplitFastaExt(filepath.Base(path))
		count[names[i]]++
	}
	for i, path := range refPaths {
		if count[names[i]] > 1 {
			names[i] = LabelFromParentDir(path)
		}
	}
	return names
}
