// Package gob encodes installed records as opaque binary blobs.
//
// A blob is a 4-byte magic, the big-endian xxhash64 of the payload, and the
// gob-encoded record. Truncated or altered blobs are rejected with ECACHE.
package gob

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docset"
)

var magic = [4]byte{'D', 'S', 'R', '1'}

const headerLen = len(magic) + 8

// record mirrors docset.Record so that the wire format does not change when
// domain types gain fields unrelated to persistence.
type record struct {
	Doc      docset.Doc
	Entries  []docset.Entry
	Types    []docset.EntryType
	CachedAt int64
}

// MarshalRecord encodes r into a blob.
func MarshalRecord(r *docset.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(make([]byte, headerLen))

	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(record{
		Doc:      r.Doc,
		Entries:  r.Index.Entries,
		Types:    r.Index.Types,
		CachedAt: r.CachedAt,
	}); err != nil {
		return nil, docset.WrapError(docset.EINTERNAL, err, "encode record %q", r.Doc.Slug)
	}

	data := buf.Bytes()
	copy(data, magic[:])
	binary.BigEndian.PutUint64(data[len(magic):headerLen], xxhash.Sum64(data[headerLen:]))
	return data, nil
}

// UnmarshalRecord decodes a blob produced by MarshalRecord.
func UnmarshalRecord(data []byte) (*docset.Record, error) {
	if len(data) < headerLen || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, docset.Errorf(docset.ECACHE, "not a record blob")
	}

	payload := data[headerLen:]
	want := binary.BigEndian.Uint64(data[len(magic):headerLen])
	if got := xxhash.Sum64(payload); got != want {
		return nil, docset.Errorf(docset.ECACHE, "record checksum mismatch: want %016x, got %016x", want, got)
	}

	var rec record
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&rec); err != nil {
		return nil, docset.WrapError(docset.ECACHE, err, "decode record")
	}

	r := &docset.Record{
		Doc:      rec.Doc,
		Index:    docset.Index{Entries: rec.Entries, Types: rec.Types},
		CachedAt: rec.CachedAt,
	}
	if err := r.Validate(); err != nil {
		return nil, docset.WrapError(docset.ECACHE, err, "invalid record")
	}
	return r, nil
}
