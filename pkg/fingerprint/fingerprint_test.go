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

package fingerprint

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	a := Of([]byte("hello"))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, Of([]byte("hello")))
	assert.NotEqual(t, a, Of([]byte("hello!")))

	c, err := cid.Decode(a)
	assert.Nil(t, err)
	assert.Equal(t, uint64(cid.Raw), c.Type())

	dh, err := multihash.Decode(c.Hash())
	assert.Nil(t, err)
	assert.Equal(t, uint64(multihash.SHA2_256), dh.Code)
}

func TestOfEmpty(t *testing.T) {
	assert.NotEmpty(t, Of(nil))
	assert.Equal(t, Of(nil), Of([]byte{}))
}
