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

package cli

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logrange/pngmsg/pkg/png"
	"github.com/stretchr/testify/assert"
)

type testEnv struct {
	dir  string
	file string
	orig []byte
	buf  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	dir, err := ioutil.TempDir("", "pngmsgCliTest")
	if err != nil {
		t.Fatal(err)
	}

	var chunks []*png.Chunk
	for _, s := range []string{"IHDR", "IEND"} {
		ct, _ := png.ParseChunkType(s)
		chunks = append(chunks, png.NewChunk(ct, []byte("data of "+s)))
	}
	te := &testEnv{dir: dir, file: filepath.Join(dir, "img.png"), buf: &bytes.Buffer{}}
	te.orig = png.FromChunks(chunks).Bytes()
	if err := ioutil.WriteFile(te.file, te.orig, 0644); err != nil {
		t.Fatal(err)
	}
	return te
}

func (te *testEnv) close() {
	os.RemoveAll(te.dir)
}

func (te *testEnv) output() string {
	s := te.buf.String()
	te.buf.Reset()
	return s
}

func (te *testEnv) read(t *testing.T, fn string) *png.Png {
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	p, err := png.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunnerEncodeDecodeRemove(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	r := NewRunner(GetDefaultConfig(), te.buf)
	assert.Nil(t, r.Encode(te.file, "ruSt", "hidden message", ""))
	assert.Equal(t, "Encode ruSt successfully\n", te.output())

	p := te.read(t, te.file)
	assert.Len(t, p.Chunks(), 3)
	assert.NotNil(t, p.ChunkByType("ruSt"))

	assert.Nil(t, r.Decode(te.file, "ruSt"))
	out := te.output()
	assert.True(t, strings.HasPrefix(out, "ruSt: { length: 14, chunk_type: \"ruSt\", data: hidden message"), out)

	assert.Nil(t, r.Remove(te.file, "ruSt", ""))
	assert.Equal(t, "Removed ruSt\n", te.output())

	data, _ := ioutil.ReadFile(te.file)
	assert.Equal(t, te.orig, data)

	assert.Nil(t, r.Decode(te.file, "ruSt"))
	assert.Equal(t, "No such chunk\n", te.output())

	assert.Nil(t, r.Remove(te.file, "ruSt", ""))
	assert.Contains(t, te.output(), "chunk not found")
	data, _ = ioutil.ReadFile(te.file)
	assert.Equal(t, te.orig, data)
}

func TestRunnerEncodeToOutput(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	out := filepath.Join(te.dir, "out.png")
	r := NewRunner(GetDefaultConfig(), te.buf)
	assert.Nil(t, r.Encode(te.file, "ruSt", "msg", out))

	data, _ := ioutil.ReadFile(te.file)
	assert.Equal(t, te.orig, data)
	assert.Len(t, te.read(t, out).Chunks(), 3)
}

func TestRunnerEncodeBadType(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	r := NewRunner(GetDefaultConfig(), te.buf)
	err := r.Encode(te.file, "ru5t", "msg", "")
	assert.Equal(t, png.KindInvalidTypeBytes, png.KindOf(err))
	assert.Equal(t, "", te.output())

	data, _ := ioutil.ReadFile(te.file)
	assert.Equal(t, te.orig, data)
}

func TestRunnerNotPng(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	assert.Nil(t, ioutil.WriteFile(te.file, []byte("GIF89a....."), 0644))
	r := NewRunner(GetDefaultConfig(), te.buf)
	assert.Equal(t, png.KindBadSignature, png.KindOf(r.Print(te.file)))
	assert.Equal(t, png.KindBadSignature, png.KindOf(r.Decode(te.file, "ruSt")))
	assert.Equal(t, png.KindBadSignature, png.KindOf(r.Remove(te.file, "ruSt", "")))
}

func TestRunnerDecodeFields(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	cfg := GetDefaultConfig()
	cfg.Fields = true
	r := NewRunner(cfg, te.buf)
	assert.Nil(t, r.Encode(te.file, "ruSt", `author=bob note="hi there"`, ""))
	te.output()

	assert.Nil(t, r.Decode(te.file, "ruSt"))
	assert.Equal(t, "ruSt:\n\tauthor=bob\n\tnote=hi there\n", te.output())

	assert.Nil(t, r.Decode(te.file, "abCd"))
	assert.Equal(t, "No such chunk\n", te.output())
}

func TestRunnerPrint(t *testing.T) {
	te := newTestEnv(t)
	defer te.close()

	r := NewRunner(GetDefaultConfig(), te.buf)
	assert.Nil(t, r.Print(te.file))
	out := te.output()
	assert.Contains(t, out, `chunk_type: "IHDR"`)
	assert.Contains(t, out, `chunk_type: "IEND"`)
	assert.Equal(t, 2, strings.Count(out, "\n"))

	cfg := GetDefaultConfig()
	cfg.Verbose = true
	r = NewRunner(cfg, te.buf)
	assert.Nil(t, r.Print(te.file))
	lines := strings.Split(strings.TrimSpace(te.output()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "2 chunks")
	assert.Contains(t, lines[1], "IHDR")
	assert.Contains(t, lines[1], "critical")
	assert.Contains(t, lines[1], "public")
	assert.Contains(t, lines[1], "unsafe")
	assert.Contains(t, lines[1], "bafkrei")
}
