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

// ChunkType is the 4-byte chunk type code. The case of every byte carries one
// property bit:
//
//	byte 0: uppercase - critical, lowercase - ancillary
//	byte 1: uppercase - public, lowercase - private
//	byte 2: uppercase - reserved bit is valid
//	byte 3: lowercase - safe to copy
//
// ChunkType values are comparable with ==, the comparison is case-sensitive.
type ChunkType [4]byte

// ChunkTypeFromBytes returns the chunk type for b. Every byte must be an ASCII
// letter. Types with an invalid reserved bit are accepted, use IsValid to
// check them.
func ChunkTypeFromBytes(b [4]byte) (ChunkType, error) {
	for i, c := range b {
		if !isLetter(c) {
			return ChunkType{}, newError(KindInvalidTypeBytes, "byte %d is 0x%02x, expected A-Z or a-z", i, c)
		}
	}
	return ChunkType(b), nil
}

// ParseChunkType returns the chunk type for its text form, which must be
// exactly 4 bytes long.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, newError(KindWrongLength, "%q is %d bytes long, expected 4", s, len(s))
	}
	var b [4]byte
	copy(b[:], s)
	return ChunkTypeFromBytes(b)
}

// Bytes returns the raw type code
func (ct ChunkType) Bytes() [4]byte {
	return ct
}

func (ct ChunkType) String() string {
	return string(ct[:])
}

func (ct ChunkType) IsCritical() bool {
	return isUpper(ct[0])
}

func (ct ChunkType) IsPublic() bool {
	return isUpper(ct[1])
}

// IsReservedBitValid returns whether the reserved bit (the case of the third
// byte) is set as required, i.e. the byte is uppercase.
func (ct ChunkType) IsReservedBitValid() bool {
	return isUpper(ct[2])
}

func (ct ChunkType) IsSafeToCopy() bool {
	return isLower(ct[3])
}

// IsValid returns whether the type code conforms to the current format
// rules. Today it is the same check as IsReservedBitValid.
func (ct ChunkType) IsValid() bool {
	return ct.IsReservedBitValid()
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isLetter(c byte) bool {
	return isUpper(c) || isLower(c)
}
