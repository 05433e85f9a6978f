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

package message

import (
	"testing"

	"github.com/logrange/pngmsg/pkg/png"
	"github.com/stretchr/testify/assert"
)

func emptyPng(t *testing.T) *png.Png {
	p, err := ReadContainer(png.Signature[:])
	if err != nil {
		t.Fatal("could not parse empty png err=", err)
	}
	return p
}

func TestEncodeDecode(t *testing.T) {
	p, err := Encode(emptyPng(t), "teSt", []byte("hello"))
	assert.Nil(t, err)

	p, err = ReadContainer(Serialize(p))
	assert.Nil(t, err)

	s, ok := Decode(p, "teSt")
	assert.True(t, ok)
	assert.Contains(t, s, "data: hello")

	txt, err := Text(p, "teSt")
	assert.Nil(t, err)
	assert.Equal(t, "hello", txt)

	_, ok = Decode(p, "abCd")
	assert.False(t, ok)

	_, err = Text(p, "abCd")
	assert.Equal(t, png.KindChunkNotFound, png.KindOf(err))
}

func TestEncodeBadType(t *testing.T) {
	p := emptyPng(t)
	_, err := Encode(p, "te1t", []byte("hello"))
	assert.Equal(t, png.KindInvalidTypeBytes, png.KindOf(err))

	_, err = Encode(p, "test!", []byte("hello"))
	assert.Equal(t, png.KindWrongLength, png.KindOf(err))
	assert.Len(t, p.Chunks(), 0)
}

func TestRemove(t *testing.T) {
	p := emptyPng(t)
	p, _ = Encode(p, "IHDR", []byte("header"))
	p, _ = Encode(p, "teSt", []byte("hello"))
	p, _ = Encode(p, "IEND", nil)

	p, c, err := Remove(p, "teSt")
	assert.Nil(t, err)
	assert.Equal(t, "teSt", c.Type().String())
	assert.Len(t, p.Chunks(), 2)

	p, c, err = Remove(p, "teSt")
	assert.Nil(t, c)
	assert.Equal(t, png.KindChunkNotFound, png.KindOf(err))
	assert.Len(t, p.Chunks(), 2)
}

func TestFields(t *testing.T) {
	keys, kvs, err := Fields(`author=bob note="hi there" author=alice flag`)
	assert.Nil(t, err)
	assert.Equal(t, []string{"author", "note", "flag"}, keys)
	assert.Equal(t, "alice", kvs["author"])
	assert.Equal(t, "hi there", kvs["note"])
	assert.Equal(t, "", kvs["flag"])
}
