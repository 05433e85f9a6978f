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
	"strings"

	"github.com/logrange/range/pkg/utils/bytes"
	"github.com/logrange/range/pkg/utils/encoding/xbinary"
	"github.com/pkg/errors"
)

// Signature is the fixed header every PNG file starts with
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Png is a PNG file seen as its signature followed by the ordered list of
// chunks. The order of chunks is the wire order and it is preserved by all
// the operations.
//
// Png is not safe for concurrent use.
type Png struct {
	chunks []*Chunk
}

// FromChunks creates new Png holding chunks in the provided order
func FromChunks(chunks []*Chunk) *Png {
	p := new(Png)
	p.chunks = make([]*Chunk, len(chunks))
	copy(p.chunks, chunks)
	return p
}

// Parse parses buf which must hold a whole PNG file. Every chunk is
// validated, the first failure is returned with the chunk index and offset
// in its message.
func Parse(buf []byte) (*Png, error) {
	if len(buf) < len(Signature) {
		return nil, newError(KindBadSignature, "%d bytes is too short for a PNG file", len(buf))
	}
	if string(buf[:len(Signature)]) != string(Signature[:]) {
		return nil, newError(KindBadSignature, "header is %x, expected %x", buf[:len(Signature)], Signature)
	}

	p := new(Png)
	offs := len(Signature)
	for offs < len(buf) {
		sz, err := ChunkSize(buf[offs:])
		if err != nil {
			return nil, errors.Wrapf(err, "chunk #%d at offset %d", len(p.chunks), offs)
		}
		c, err := ParseChunk(buf[offs : offs+sz])
		if err != nil {
			return nil, errors.Wrapf(err, "chunk #%d at offset %d", len(p.chunks), offs)
		}
		p.chunks = append(p.chunks, c)
		offs += sz
	}
	return p, nil
}

// Header returns the file signature
func (p *Png) Header() [8]byte {
	return Signature
}

// Chunks returns the chunks in their order. The slice is a copy, the chunks
// are shared.
func (p *Png) Chunks() []*Chunk {
	res := make([]*Chunk, len(p.chunks))
	copy(res, p.chunks)
	return res
}

// AppendChunk adds c to the end of the chunk list. Neither duplicates nor
// the terminal chunk position are checked.
func (p *Png) AppendChunk(c *Chunk) {
	p.chunks = append(p.chunks, c)
}

// ChunkByType returns the first chunk whose type text is ct, or nil
func (p *Png) ChunkByType(ct string) *Chunk {
	if idx := p.indexOf(ct); idx >= 0 {
		return p.chunks[idx]
	}
	return nil
}

// RemoveFirstChunk removes the first chunk of type ct and returns it. The
// Png stays unchanged if there is no such chunk.
func (p *Png) RemoveFirstChunk(ct string) (*Chunk, error) {
	idx := p.indexOf(ct)
	if idx < 0 {
		return nil, newError(KindChunkNotFound, "no chunk of type %q", ct)
	}
	c := p.chunks[idx]
	chunks := make([]*Chunk, 0, len(p.chunks)-1)
	chunks = append(chunks, p.chunks[:idx]...)
	p.chunks = append(chunks, p.chunks[idx+1:]...)
	return c, nil
}

// Size returns the number of bytes Bytes() will return
func (p *Png) Size() int {
	sz := len(Signature)
	for _, c := range p.chunks {
		sz += c.WritableSize()
	}
	return sz
}

// Bytes returns the wire form of the file: signature and all the chunks in
// their order.
func (p *Png) Bytes() []byte {
	var w bytes.Writer
	w.Init(p.Size(), nil)
	ow := &xbinary.ObjectsWriter{Writer: &w}
	// bytes.Writer never fails
	_, _ = ow.WritePureBytes(Signature[:])
	for _, c := range p.chunks {
		_, _ = c.WriteTo(ow)
	}
	return w.Buf()
}

func (p *Png) String() string {
	var sb strings.Builder
	for i, c := range p.chunks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (p *Png) indexOf(ct string) int {
	for i, c := range p.chunks {
		if c.typ.String() == ct {
			return i
		}
	}
	return -1
}
