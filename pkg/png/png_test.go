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
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestChunk(t *testing.T, ct, data string) *Chunk {
	typ, err := ParseChunkType(ct)
	if err != nil {
		t.Fatal("could not parse chunk type ", ct, " err=", err)
	}
	return NewChunk(typ, []byte(data))
}

func testingPng(t *testing.T) *Png {
	return FromChunks([]*Chunk{
		newTestChunk(t, "IHDR", "0123456789abc"),
		newTestChunk(t, "teSt", "hello"),
		newTestChunk(t, "IEND", ""),
	})
}

func chunkTypes(p *Png) []string {
	res := make([]string, 0, len(p.Chunks()))
	for _, c := range p.Chunks() {
		res = append(res, c.Type().String())
	}
	return res
}

func TestParseEmptyPng(t *testing.T) {
	p, err := Parse(Signature[:])
	assert.Nil(t, err)
	assert.Len(t, p.Chunks(), 0)
	assert.Equal(t, Signature[:], p.Bytes())
	assert.Equal(t, Signature, p.Header())
}

func TestParseBadSignature(t *testing.T) {
	_, err := Parse(nil)
	assert.Equal(t, KindBadSignature, KindOf(err))

	_, err = Parse(Signature[:7])
	assert.Equal(t, KindBadSignature, KindOf(err))

	buf := testingPng(t).Bytes()
	buf[1] = 'J'
	_, err = Parse(buf)
	assert.Equal(t, KindBadSignature, KindOf(err))
}

func TestPngRoundTrip(t *testing.T) {
	p := testingPng(t)
	buf := p.Bytes()
	assert.Equal(t, p.Size(), len(buf))

	p2, err := Parse(buf)
	assert.Nil(t, err)
	assert.Equal(t, chunkTypes(p), chunkTypes(p2))
	for i, c := range p.Chunks() {
		c2 := p2.Chunks()[i]
		assert.Equal(t, c.Bytes(), c2.Bytes())
	}
	assert.Equal(t, buf, p2.Bytes())
}

func TestPngIdempotentSerialization(t *testing.T) {
	buf := testingPng(t).Bytes()
	for i := 0; i < 5; i++ {
		p, err := Parse(buf)
		assert.Nil(t, err)
		buf2 := p.Bytes()
		assert.Equal(t, buf, buf2)
		buf = buf2
	}
}

func TestEncodeThenDecode(t *testing.T) {
	p, err := Parse(Signature[:])
	assert.Nil(t, err)

	p.AppendChunk(newTestChunk(t, "teSt", "hello"))
	p, err = Parse(p.Bytes())
	assert.Nil(t, err)

	c := p.ChunkByType("teSt")
	if assert.NotNil(t, c) {
		s, err := c.DataAsString()
		assert.Nil(t, err)
		assert.Equal(t, "hello", s)
	}
	assert.Nil(t, p.ChunkByType("test"))
	assert.Nil(t, p.ChunkByType("abcd"))
}

func TestAppendChunk(t *testing.T) {
	p := testingPng(t)
	p.AppendChunk(newTestChunk(t, "teSt", "second"))
	assert.Equal(t, []string{"IHDR", "teSt", "IEND", "teSt"}, chunkTypes(p))

	s, _ := p.ChunkByType("teSt").DataAsString()
	assert.Equal(t, "hello", s)
}

func TestRemoveFirstChunk(t *testing.T) {
	p := testingPng(t)
	c, err := p.RemoveFirstChunk("teSt")
	assert.Nil(t, err)
	assert.Equal(t, "teSt", c.Type().String())
	assert.Equal(t, []string{"IHDR", "IEND"}, chunkTypes(p))

	c, err = p.RemoveFirstChunk("teSt")
	assert.Nil(t, c)
	assert.Equal(t, KindChunkNotFound, KindOf(err))
	assert.Equal(t, []string{"IHDR", "IEND"}, chunkTypes(p))
}

func TestRemoveFirstOfDuplicates(t *testing.T) {
	p := testingPng(t)
	p.AppendChunk(newTestChunk(t, "teSt", "second"))

	c, err := p.RemoveFirstChunk("teSt")
	assert.Nil(t, err)
	s, _ := c.DataAsString()
	assert.Equal(t, "hello", s)
	assert.Equal(t, []string{"IHDR", "IEND", "teSt"}, chunkTypes(p))

	s, _ = p.ChunkByType("teSt").DataAsString()
	assert.Equal(t, "second", s)
}

func TestChunksIsACopy(t *testing.T) {
	p := testingPng(t)
	cs := p.Chunks()
	cs[0] = nil
	assert.NotNil(t, p.Chunks()[0])
}

func TestParseChunkErrors(t *testing.T) {
	buf := testingPng(t).Bytes()

	_, err := Parse(buf[:len(buf)-3])
	assert.Equal(t, KindIncompleteChunk, KindOf(err))

	_, err = Parse(append(append([]byte{}, buf...), 1, 2, 3))
	assert.Equal(t, KindIncompleteChunk, KindOf(err))
	assert.Contains(t, err.Error(), "chunk #3")

	bad := append([]byte{}, buf...)
	// the first data byte of IHDR
	bad[len(Signature)+8] ^= 0x01
	_, err = Parse(bad)
	assert.Equal(t, KindChecksumMismatch, KindOf(err))
	assert.Contains(t, err.Error(), "chunk #0 at offset 8")
}

func TestPngTamperedCRC(t *testing.T) {
	good := append(append([]byte{}, Signature[:]...), chunkBytes(42, "RuSt", []byte(testMessage), 2882656334)...)
	p, err := Parse(good)
	assert.Nil(t, err)
	assert.Equal(t, "RuSt", p.ChunkByType("RuSt").Type().String())

	bad := append(append([]byte{}, Signature[:]...), chunkBytes(42, "RuSt", []byte(testMessage), 2882656333)...)
	_, err = Parse(bad)
	assert.Equal(t, KindChecksumMismatch, KindOf(err))
}

func TestPngString(t *testing.T) {
	p := testingPng(t)
	s := p.String()
	assert.Contains(t, s, `chunk_type: "IHDR"`)
	assert.Contains(t, s, `data: hello`)
	assert.Contains(t, s, `chunk_type: "IEND"`)
}
