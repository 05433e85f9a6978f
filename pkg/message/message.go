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

// Package message implements the operations the command line tool runs over a
// parsed PNG file: embedding a text message into a chunk, reading it back and
// removing it.
package message

import (
	"fmt"

	"github.com/kr/logfmt"
	"github.com/logrange/pngmsg/pkg/png"
	"github.com/pkg/errors"
)

// ReadContainer parses raw bytes of a PNG file
func ReadContainer(raw []byte) (*png.Png, error) {
	return png.Parse(raw)
}

// Encode appends a new chunk of type ct holding msg to p. p is not changed
// if ct is not a valid chunk type.
func Encode(p *png.Png, ct string, msg []byte) (*png.Png, error) {
	typ, err := png.ParseChunkType(ct)
	if err != nil {
		return p, errors.Wrapf(err, "could not encode message into chunk %q", ct)
	}
	p.AppendChunk(png.NewChunk(typ, msg))
	return p, nil
}

// Decode returns the rendered form of the first chunk of type ct. The second
// value is false if there is no such chunk.
func Decode(p *png.Png, ct string) (string, bool) {
	c := p.ChunkByType(ct)
	if c == nil {
		return "", false
	}
	return c.String(), true
}

// Text returns the data of the first chunk of type ct as text
func Text(p *png.Png, ct string) (string, error) {
	c := p.ChunkByType(ct)
	if c == nil {
		return "", &png.Error{Kind: png.KindChunkNotFound, Msg: fmt.Sprintf("no chunk of type %q", ct)}
	}
	return c.DataAsString()
}

// Remove removes the first chunk of type ct. It returns p and the removed
// chunk. p stays untouched if there is no such chunk.
func Remove(p *png.Png, ct string) (*png.Png, *png.Chunk, error) {
	c, err := p.RemoveFirstChunk(ct)
	if err != nil {
		return p, nil, err
	}
	return p, c, nil
}

// Serialize returns the wire form of p
func Serialize(p *png.Png) []byte {
	return p.Bytes()
}

type fields struct {
	keys []string
	kvs  map[string]string
}

// HandleLogfmt is a part of logfmt.Handler
func (f *fields) HandleLogfmt(key, val []byte) error {
	k := string(key)
	if _, ok := f.kvs[k]; !ok {
		f.keys = append(f.keys, k)
	}
	f.kvs[k] = string(val)
	return nil
}

// Fields parses text in logfmt form (e.g. `author=bob note="hi there"`). It
// returns the keys in the order of their first appearance and the values by
// key. Later duplicates override earlier ones.
func Fields(text string) ([]string, map[string]string, error) {
	f := &fields{kvs: make(map[string]string)}
	if err := logfmt.Unmarshal([]byte(text), f); err != nil {
		return nil, nil, errors.Wrapf(err, "could not parse %q as logfmt", text)
	}
	return f.keys, f.kvs, nil
}
