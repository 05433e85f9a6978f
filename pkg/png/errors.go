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

	"github.com/pkg/errors"
)

// Kind identifies the class of a failure detected while parsing or
// manipulating PNG data. Callers branch on Kind, not on the message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidTypeBytes
	KindWrongLength
	KindTruncatedData
	KindTrailingBytes
	KindIncompleteChunk
	KindChecksumMismatch
	KindBadSignature
	KindChunkNotFound
	KindNotUtf8
)

var kindNames = [...]string{
	KindUnknown:          "unknown",
	KindInvalidTypeBytes: "invalid chunk type bytes",
	KindWrongLength:      "wrong chunk type length",
	KindTruncatedData:    "truncated data",
	KindTrailingBytes:    "trailing bytes",
	KindIncompleteChunk:  "incomplete chunk",
	KindChecksumMismatch: "checksum mismatch",
	KindBadSignature:     "bad signature",
	KindChunkNotFound:    "chunk not found",
	KindNotUtf8:          "data is not utf-8",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Error is returned by every function of the package. Msg describes which
// field failed and with which values.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

func newError(k Kind, format string, args ...interface{}) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err. Errors wrapped by github.com/pkg/errors are
// unwrapped first. KindUnknown is returned for nil and foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsKind returns whether err is (or wraps) an *Error of kind k
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
