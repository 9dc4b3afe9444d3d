package fasta_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/metaref/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

var fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"

func TestSeq(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	seq, err := fa.Seq("seq2")
	assert.NoError(t, err)
	expect.EQ(t, seq, "ACGTACGT")
	seq, err = fa.Seq("seq1")
	assert.NoError(t, err)
	expect.EQ(t, seq, "ACGTACGTACGT")
	_, err = fa.Seq("seq0")
	expect.NotNil(t, err)
	expect.EQ(t, fa.SeqNames(), []string{"seq1", "seq2"})
}

func TestNewKeepsFirstDuplicate(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(">a\nAAAA\n>b\nCC\n>a\nGG\n"))
	assert.NoError(t, err)
	expect.EQ(t, fa.SeqNames(), []string{"a", "b"})
	seq, err := fa.Seq("a")
	assert.NoError(t, err)
	expect.EQ(t, seq, "AAAA")
}

func scanAll(t *testing.T, data string) ([]fasta.Record, error) {
	sc := fasta.NewScanner(strings.NewReader(data))
	var (
		recs []fasta.Record
		rec  fasta.Record
	)
	for sc.Scan(&rec) {
		recs = append(recs, rec)
	}
	return recs, sc.Err()
}

func TestScanner(t *testing.T) {
	recs, err := scanAll(t, fastaData)
	assert.NoError(t, err)
	expect.EQ(t, recs, []fasta.Record{
		{Name: "seq1", Seq: "ACGTACGTACGT"},
		{Name: "seq2", Seq: "ACGTACGT"},
	})

	// CRLF, blank lines, no trailing newline, empty sequence.
	recs, err = scanAll(t, ">a\r\nAC\r\n\r\nGT\r\n>empty\n>b x y\nTT")
	assert.NoError(t, err)
	expect.EQ(t, recs, []fasta.Record{
		{Name: "a", Seq: "ACGT"},
		{Name: "empty", Seq: ""},
		{Name: "b", Seq: "TT"},
	})

	recs, err = scanAll(t, "")
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 0)

	_, err = scanAll(t, "ACGT\n>a\nAC\n")
	expect.EQ(t, err, fasta.ErrInvalid)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := fasta.NewWriter(&buf, 4)
	assert.NoError(t, w.Write("a", "ACGTACGTAC"))
	assert.NoError(t, w.Write("b", "ACGT"))
	assert.NoError(t, w.Write("c", ""))
	expect.EQ(t, buf.String(), ">a\nACGT\nACGT\nAC\n>b\nACGT\n>c\n")

	recs, err := scanAll(t, buf.String())
	assert.NoError(t, err)
	expect.EQ(t, recs, []fasta.Record{
		{Name: "a", Seq: "ACGTACGTAC"},
		{Name: "b", Seq: "ACGT"},
		{Name: "c", Seq: ""},
	})
}

func TestGenerateIndex(t *testing.T) {
	generateIndex := func(fa string) (faidx string) {
		idx := bytes.Buffer{}
		assert.NoError(t, fasta.GenerateIndex(&idx, strings.NewReader(fa)))
		return idx.String()
	}

	fa := `>E0
GGTGAAATC
CCTGAAATC
AAAATTGCT
>E1
GTCCCTCCCCAGACATGGCCCTGGGAGGC
>E2
CCGCGCCCGCGCCCCCGCCGCC
`
	assert.EQ(t, generateIndex(fa), `E0	27	4	9	10
E1	29	38	29	30
E2	22	72	22	23
`)

	// MS-DOS newline encoding.
	assert.EQ(t, generateIndex(">E0\r\nGGGG\r\n>E1\r\nAAAAA\r\n"),
		`E0	4	5	4	6
E1	5	16	5	7
`)

	// No newline at the end.
	assert.EQ(t, generateIndex(">E0\nGGGG\n>E1\nCCCCC\nAAAAA"),
		`E0	4	4	4	5
E1	10	13	5	6
`)

	// Records without bases.
	assert.EQ(t, generateIndex(">e_a\n>e_b\nACGT\n>e_c\n"),
		`e_a	0	5	0	0
e_b	4	10	4	5
e_c	0	20	0	0
`)

	idx := bytes.Buffer{}
	assert.Regexp(t, fasta.GenerateIndex(&idx, strings.NewReader("")), "empty FASTA")
	idx.Reset()
	assert.Regexp(t, fasta.GenerateIndex(&idx, strings.NewReader("ACGT\n>a\nAC\n")), "malformed FASTA")
}

func TestGenerateIndexFile(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "ref.fasta")
	assert.NoError(t, file.WriteFile(ctx, path, []byte(">r_1\nACGT\nAC\n")))
	assert.NoError(t, fasta.GenerateIndexFile(ctx, path))
	data, err := file.ReadFile(ctx, path+fasta.IndexSuffix)
	assert.NoError(t, err)
	expect.EQ(t, string(data), "r_1\t6\t5\t4\t5\n")

	expect.NotNil(t, fasta.GenerateIndexFile(ctx, filepath.Join(tempDir, "missing.fasta")))
}
