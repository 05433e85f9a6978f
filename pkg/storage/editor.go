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

package storage

import (
	"os"
	"path/filepath"

	"github.com/logrange/pngmsg/pkg/png"
	"github.com/pkg/errors"
)

type (
	// Editor runs read-modify-write cycles over PNG files. Every cycle parses
	// the file once, lets the caller change it, and writes the result back
	// either to the same file (via ReplaceFile) or to a separate output file.
	Editor struct {
		// TempExt is the extension of the temporary file, DefaultTempExt if
		// empty
		TempExt string

		// FileMode is used for new files
		FileMode os.FileMode

		// NoLock disables the advisory lock held for the whole cycle
		NoLock bool
	}

	// EditFn changes p in place. If it returns an error, nothing is written.
	EditFn func(p *png.Png) error

	// ViewFn reads p
	ViewFn func(p *png.Png) error
)

// NewEditor returns Editor with default settings
func NewEditor() *Editor {
	return &Editor{TempExt: DefaultTempExt, FileMode: DefaultFileMode}
}

// Edit reads and parses path, calls fn and writes the result to out, or
// replaces path if out is empty.
func (e *Editor) Edit(path, out string, fn EditFn) error {
	if !e.NoLock {
		fl, err := Lock(path)
		if err != nil {
			return err
		}
		defer fl.Unlock()
	}

	p, err := load(path)
	if err != nil {
		return err
	}

	if err = fn(p); err != nil {
		return err
	}

	data := p.Bytes()
	if out != "" && !samePath(out, path) {
		return WriteFile(out, data, e.fileMode())
	}
	return ReplaceFile(path, e.TempExt, data, e.fileMode())
}

// View reads and parses path and calls fn. No lock is held.
func (e *Editor) View(path string, fn ViewFn) error {
	p, err := load(path)
	if err != nil {
		return err
	}
	return fn(p)
}

func (e *Editor) fileMode() os.FileMode {
	if e.FileMode == 0 {
		return DefaultFileMode
	}
	return e.FileMode
}

// samePath returns whether a and b name the same file, existing or not
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

func load(path string) (*png.Png, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := png.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}
	return p, nil
}
