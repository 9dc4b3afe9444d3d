package meta

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/metaref/encoding/fasta"
	"github.com/grailbio/testutil/assert"
)

func testWriteFile(t *testing.T, path, data string) string {
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.NoError(t, file.WriteFile(vcontext.Background(), path, []byte(data)))
	return path
}

func testReadFile(t *testing.T, path string) string {
	data, err := file.ReadFile(vcontext.Background(), path)
	assert.NoError(t, err, path)
	return string(data)
}

// testReadFasta returns the records of a FASTA file, in order.
func testReadFasta(t *testing.T, path string) []fasta.Record {
	data, err := file.ReadFile(vcontext.Background(), path)
	assert.NoError(t, err, path)
	sc := fasta.NewScanner(bytes.NewReader(data))
	var (
		recs []fasta.Record
		rec  fasta.Record
	)
	for sc.Scan(&rec) {
		recs = append(recs, rec)
	}
	assert.NoError(t, sc.Err())
	return recs
}

func testRecordNames(recs []fasta.Record) []string {
	names := []string{}
	for _, r := range recs {
		names = append(names, r.Name)
	}
	return names
}
