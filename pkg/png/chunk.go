// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package png

import (
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/logrange/range/pkg/utils/bytes"
	"github.com/logrange/range/pkg/utils/encoding/xbinary"
)

const (
	lengthFieldSize = 4
	typeFieldSize   = 4
	crcFieldSize    = 4

	// chunkFrameSize is the size of a chunk with no data
	chunkFrameSize = lengthFieldSize + typeFieldSize + crcFieldSize
)

// Chunk is one length-prefixed, typed and checksummed block of a PNG file.
// A Chunk is immutable, its CRC always matches its type and data.
type Chunk struct {
	length uint32
	typ    ChunkType
	data   []byte
	crc    uint32
}

var _ xbinary.Writable = (*Chunk)(nil)

// NewChunk creates the chunk of type ct holding a copy of data
func NewChunk(ct ChunkType, data []byte) *Chunk {
	c := new(Chunk)
	c.typ = ct
	c.data = bytes.BytesCopy(data)
	c.length = uint32(len(c.data))
	c.crc = checksum(ct, c.data)
	return c
}

// ParseChunk parses buf, which must contain exactly one chunk in its wire
// form: length, type, data and crc. The stored crc must match the one
// computed over the type and data.
func ParseChunk(buf []byte) (*Chunk, error) {
	_, ln, err := xbinary.UnmarshalUint32(buf)
	if err != nil {
		return nil, newError(KindTruncatedData, "length field: %d bytes available, 4 expected", len(buf))
	}
	rest := buf[lengthFieldSize:]

	if len(rest) < typeFieldSize {
		return nil, newError(KindTruncatedData, "type field: %d bytes available, 4 expected", len(rest))
	}
	var tb [4]byte
	copy(tb[:], rest)
	ct, err := ChunkTypeFromBytes(tb)
	if err != nil {
		return nil, err
	}
	rest = rest[typeFieldSize:]

	if uint64(len(rest)) < uint64(ln) {
		return nil, newError(KindTruncatedData, "data of %s: length is %d, but only %d bytes available", ct, ln, len(rest))
	}
	data := rest[:ln]
	rest = rest[ln:]

	_, crc, err := xbinary.UnmarshalUint32(rest)
	if err != nil {
		return nil, newError(KindTruncatedData, "crc field of %s: %d bytes available, 4 expected", ct, len(rest))
	}
	if extra := len(rest) - crcFieldSize; extra > 0 {
		return nil, newError(KindTrailingBytes, "%d bytes after the crc field of %s", extra, ct)
	}

	if actual := checksum(ct, data); actual != crc {
		return nil, newError(KindChecksumMismatch, "chunk %s stores crc=%d, but computed crc=%d", ct, crc, actual)
	}

	c := new(Chunk)
	c.length = ln
	c.typ = ct
	c.data = bytes.BytesCopy(data)
	c.crc = crc
	return c, nil
}

// ChunkSize returns how many bytes the chunk which starts at the beginning of
// buf occupies. Only the length field is read, the rest of the chunk is not
// validated.
func ChunkSize(buf []byte) (int, error) {
	if len(buf) < chunkFrameSize {
		return 0, newError(KindIncompleteChunk, "%d bytes left, a chunk takes at least %d", len(buf), chunkFrameSize)
	}
	_, ln, _ := xbinary.UnmarshalUint32(buf)
	sz := uint64(ln) + chunkFrameSize
	if uint64(len(buf)) < sz {
		return 0, newError(KindIncompleteChunk, "chunk declares %d data bytes, but only %d bytes left", ln, len(buf)-chunkFrameSize)
	}
	return int(sz), nil
}

// Length returns the number of data bytes
func (c *Chunk) Length() uint32 {
	return c.length
}

func (c *Chunk) Type() ChunkType {
	return c.typ
}

// Data returns a copy of the chunk data
func (c *Chunk) Data() []byte {
	return bytes.BytesCopy(c.data)
}

func (c *Chunk) CRC() uint32 {
	return c.crc
}

// DataAsString returns the data as text, it fails if the data is not valid
// UTF-8.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", newError(KindNotUtf8, "data of chunk %s", c.typ)
	}
	return string(c.data), nil
}

// Bytes returns the wire form of the chunk: length, type, data and crc.
func (c *Chunk) Bytes() []byte {
	var w bytes.Writer
	w.Init(c.WritableSize(), nil)
	// bytes.Writer never fails
	_, _ = c.WriteTo(&xbinary.ObjectsWriter{Writer: &w})
	return w.Buf()
}

// WritableSize is a part of xbinary.Writable
func (c *Chunk) WritableSize() int {
	return chunkFrameSize + len(c.data)
}

// WriteTo is a part of xbinary.Writable
func (c *Chunk) WriteTo(ow *xbinary.ObjectsWriter) (int, error) {
	n, err := ow.WriteUint32(c.length)
	if err != nil {
		return n, err
	}
	nn, err := ow.WritePureBytes(c.typ[:])
	n += nn
	if err != nil {
		return n, err
	}
	nn, err = ow.WritePureBytes(c.data)
	n += nn
	if err != nil {
		return n, err
	}
	nn, err = ow.WriteUint32(c.crc)
	return n + nn, err
}

func (c *Chunk) String() string {
	data, err := c.DataAsString()
	if err != nil {
		data = fmt.Sprintf("<%s binary>", humanize.Bytes(uint64(c.length)))
	}
	return fmt.Sprintf("{ length: %d, chunk_type: %q, data: %s, crc: %d }", c.length, c.typ.String(), data, c.crc)
}

func checksum(ct ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(ct[:])
	h.Write(data)
	return h.Sum32()
}
