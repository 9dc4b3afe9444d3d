package meta

import (
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func testResult(ref string, asms ...Assembly) PartitionResult {
	return PartitionResult{
		ByRef:      map[string][]Assembly{ref: asms},
		NotAligned: NewAssembly("/c/"+asms[0].Label+"_not_aligned_anywhere.fasta", asms[0].Label),
	}
}

func TestAggregatePartitionsOrdersByLabel(t *testing.T) {
	x := NewAssembly("/c/X_to_ref.fasta", "X")
	y := NewAssembly("/c/Y_to_ref.fasta", "Y")
	z := NewAssembly("/c/Z_to_ref.fasta", "Z")
	results := []PartitionResult{testResult("ref", y), testResult("ref", x), testResult("ref", z)}

	byRef, notAligned := AggregatePartitions(results, []string{"/c/ref.fasta", "/c/other.fasta"}, []string{"X", "Y", "Z"})
	expect.EQ(t, byRef, []ReferenceAssemblies{
		{RefPath: "/c/ref.fasta", Assemblies: []Assembly{x, y, z}},
		{RefPath: "/c/other.fasta", Assemblies: []Assembly{}},
	})
	require.Len(t, notAligned, 3)
	expect.EQ(t, notAligned[0].Label, "Y")
	expect.EQ(t, notAligned[1].Label, "X")
	expect.EQ(t, notAligned[2].Label, "Z")
}

func TestAggregatePartitionsDedup(t *testing.T) {
	x := NewAssembly("/c/X_to_ref.fasta", "X")
	xAgain := NewAssembly("/elsewhere/X_to_ref.fasta", "X")
	x2 := NewAssembly("/c/X2_to_ref.fasta", "X")
	unlabeled := NewAssembly("/c/W_to_ref.fasta", "W")
	results := []PartitionResult{
		testResult("ref", x, xAgain),
		testResult("ref", x2),
		testResult("ref", unlabeled),
	}
	byRef, _ := AggregatePartitions(results, []string{"/c/ref.fasta"}, []string{"X", "Y"})
	// xAgain shares x's name; x2 shares x's label. W has no label.
	expect.EQ(t, byRef[0].Assemblies, []Assembly{x})
}

func TestPartitionContigs(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	env := newPartitionEnv(t, tempDir, map[string]string{
		"ref1_chr": "ref1",
		"ref2_chr": "ref2",
	})

	var asms []Assembly
	for _, label := range []string{"a", "b", "c", "d"} {
		asms = append(asms, env.writeAssembly(t, label, ">"+label+"1\nACGT\n>"+label+"2\nTTTT\n"))
	}
	env.writeAlignments(t, "a", "ref1_chr a1\nref2_chr a1 a2\n")
	env.writeAlignments(t, "b", "ref2_chr b2\n")
	env.writeAlignments(t, "c", "ref1_chr c2\n")

	refPaths := []string{filepath.Join(tempDir, "ref1.fasta"), filepath.Join(tempDir, "ref2.fasta")}
	labels := []string{"d", "c", "b", "a"}
	opts := testOpts()
	byRef, notAligned, err := PartitionContigs(ctx, asms, refPaths, labels, env.cfg, opts)
	assert.NoError(t, err)

	labelsOf := func(asms []Assembly) []string {
		var l []string
		for _, a := range asms {
			l = append(l, a.Label)
		}
		return l
	}
	require.Len(t, byRef, 2)
	expect.EQ(t, byRef[0].RefPath, refPaths[0])
	expect.EQ(t, labelsOf(byRef[0].Assemblies), []string{"c", "a"})
	expect.EQ(t, byRef[1].RefPath, refPaths[1])
	expect.EQ(t, labelsOf(byRef[1].Assemblies), []string{"b", "a"})
	expect.EQ(t, labelsOf(notAligned), []string{"a", "b", "c", "d"})

	expect.EQ(t, testRecordNames(testReadFasta(t, notAligned[0].Path)), []string{})
	expect.EQ(t, testRecordNames(testReadFasta(t, notAligned[1].Path)), []string{"b1"})
	expect.EQ(t, testRecordNames(testReadFasta(t, notAligned[2].Path)), []string{"c1"})
	expect.EQ(t, testRecordNames(testReadFasta(t, notAligned[3].Path)), []string{"d1", "d2"})
}

func TestPartitionContigsEmpty(t *testing.T) {
	byRef, notAligned, err := PartitionContigs(vcontext.Background(), nil, []string{"/c/ref.fasta"}, nil, PartitionConfig{}, testOpts())
	assert.NoError(t, err)
	expect.EQ(t, byRef, []ReferenceAssemblies{{RefPath: "/c/ref.fasta", Assemblies: []Assembly{}}})
	expect.EQ(t, len(notAligned), 0)
}

func TestPartitionContigsFailFast(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	env := newPartitionEnv(t, tempDir, map[string]string{"chr": "ref"})

	asms := []Assembly{
		env.writeAssembly(t, "ok", ">c\nA\n"),
		NewAssembly(filepath.Join(tempDir, "missing.fasta"), "missing"),
	}
	_, _, err := PartitionContigs(ctx, asms, []string{"/c/ref.fasta"}, []string{"ok", "missing"}, env.cfg, testOpts())
	expect.NotNil(t, err)
}
