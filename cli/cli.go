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
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/logrange/pngmsg/pkg/fingerprint"
	"github.com/logrange/pngmsg/pkg/message"
	"github.com/logrange/pngmsg/pkg/png"
	"github.com/logrange/pngmsg/pkg/storage"
)

// Runner executes pngmsg commands over PNG files and reports the results
// to its writer.
type Runner struct {
	cfg    *Config
	ed     *storage.Editor
	w      io.Writer
	logger log4g.Logger
}

// NewRunner creates new Runner which uses cfg and writes its reports to w
func NewRunner(cfg *Config, w io.Writer) *Runner {
	r := new(Runner)
	r.cfg = cfg
	r.ed = cfg.Editor()
	r.w = w
	r.logger = log4g.GetLogger("pngmsg.cli")
	return r
}

// Encode stores msg into a new chunk of type ct at the end of file. The
// result goes to out, or replaces file if out is empty.
func (r *Runner) Encode(file, ct, msg, out string) error {
	err := r.ed.Edit(file, out, func(p *png.Png) error {
		_, err := message.Encode(p, ct, []byte(msg))
		return err
	})
	if err != nil {
		r.logger.Error("Could not encode ", ct, " into ", file, " err=", err)
		return err
	}
	r.printf("Encode %s successfully\n", ct)
	return nil
}

// Decode prints the first chunk of type ct. A missing chunk is reported,
// but it is not an error.
func (r *Runner) Decode(file, ct string) error {
	return r.ed.View(file, func(p *png.Png) error {
		if !r.cfg.Fields {
			s, ok := message.Decode(p, ct)
			if !ok {
				r.printf("No such chunk\n")
				return nil
			}
			r.printf("%s: %s\n", ct, s)
			return nil
		}

		txt, err := message.Text(p, ct)
		if png.IsKind(err, png.KindChunkNotFound) {
			r.printf("No such chunk\n")
			return nil
		}
		if err != nil {
			return err
		}
		keys, kvs, err := message.Fields(txt)
		if err != nil {
			return err
		}
		r.printf("%s:\n", ct)
		for _, k := range keys {
			r.printf("\t%s=%s\n", k, kvs[k])
		}
		return nil
	})
}

// Remove removes the first chunk of type ct from file. The result goes to
// out, or replaces file if out is empty. A missing chunk is reported, but it
// is not an error and nothing is written then.
func (r *Runner) Remove(file, ct, out string) error {
	err := r.ed.Edit(file, out, func(p *png.Png) error {
		_, _, err := message.Remove(p, ct)
		return err
	})
	if png.IsKind(err, png.KindChunkNotFound) {
		r.printf("%s\n", err)
		return nil
	}
	if err != nil {
		r.logger.Error("Could not remove ", ct, " from ", file, " err=", err)
		return err
	}
	r.printf("Removed %s\n", ct)
	return nil
}

// Print prints all chunks of file in their order
func (r *Runner) Print(file string) error {
	return r.ed.View(file, func(p *png.Png) error {
		if !r.cfg.Verbose {
			r.printf("%s\n", p)
			return nil
		}

		chunks := p.Chunks()
		r.printf("%s: %s chunks, %s\n", file, humanize.Comma(int64(len(chunks))), humanize.Bytes(uint64(p.Size())))
		for i, c := range chunks {
			ct := c.Type()
			r.printf("%4d %s %10s %-9s %-7s %-6s crc=%08x %s\n", i, ct, humanize.Bytes(uint64(c.Length())),
				pick(ct.IsCritical(), "critical", "ancillary"),
				pick(ct.IsPublic(), "public", "private"),
				pick(ct.IsSafeToCopy(), "safe", "unsafe"),
				c.CRC(), fingerprint.Of(c.Data()))
		}
		return nil
	})
}

func (r *Runner) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func pick(cond bool, t, f string) string {
	if cond {
		return t
	}
	return f
}
