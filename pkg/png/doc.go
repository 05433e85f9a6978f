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

/*
Package png contains the chunk model of PNG files. No pixel data is decoded,
the package only splits a file into chunks, validates them and puts them back
together byte-for-byte.

The wire form (all integers are big-endian):

	signature: 89 50 4E 47 0D 0A 1A 0A
	chunk*:    length(4) | type(4) | data(length) | crc(4)

The crc is the CRC-32 (IEEE polynomial) of the type and data fields.
*/
package png
