/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"bytes"
	"compress/zlib"
	"io"
)

// PdfObjectStream is a stream object: a dictionary plus body bytes.
//
// Streams are created uncompressed via NewStream; whether a stream is
// eligible for compression is recorded at creation time and applied later,
// in one pass, by (*Arena).Compress. This mirrors the two-step "mark
// compressible now, deflate during the final compress pass" flow the
// teacher's document model uses (Stream::with_compression in the source this
// was adapted from).
type PdfObjectStream struct {
	*PdfObjectDictionary
	Contents     []byte
	compressible bool
	compressed   bool
}

// NewStream builds a stream object from raw contents. When compressible is
// true, a later call to (*Arena).Compress will deflate it and set
// "/Filter /FlateDecode"; otherwise it is written out exactly as given
// (this is how the ToUnicode CMap stream stays uncompressed per spec §4.B).
func NewStream(contents []byte, compressible bool) *PdfObjectStream {
	dict := MakeDict()
	dict.Set("Length", MakeInteger(int64(len(contents))))
	return &PdfObjectStream{PdfObjectDictionary: dict, Contents: contents, compressible: compressible}
}

// WriteString for PdfObjectStream panics: a stream is only ever referenced,
// never embedded directly inside another object's body.
func (s *PdfObjectStream) WriteString() string {
	panic("core: PdfObjectStream must be referenced by id, not embedded directly")
}

// deflate applies this stream's pending compression, if any. Safe to call
// more than once; only the first call has an effect.
func (s *PdfObjectStream) deflate() error {
	if s.compressed || !s.compressible {
		return nil
	}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(s.Contents); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	s.Contents = buf.Bytes()
	s.Set("Filter", MakeName("FlateDecode"))
	s.Set("Length", MakeInteger(int64(len(s.Contents))))
	s.compressed = true
	return nil
}

// IsEmpty reports whether the stream's body is zero-length.
func (s *PdfObjectStream) IsEmpty() bool { return len(s.Contents) == 0 }

// DecodeStream returns stream's decoded contents, inflating it first if it
// carries a "/Filter /FlateDecode" entry. It exists so tests (and callers
// inspecting round-tripped output) can read content-stream bytes back.
func DecodeStream(stream *PdfObjectStream) ([]byte, error) {
	filter := stream.Get("Filter")
	name, ok := filter.(*PdfObjectName)
	if !ok || *name != "FlateDecode" {
		return stream.Contents, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(stream.Contents))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
