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
	"fmt"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const lockFileExt = ".lock"

var ErrLocked = fmt.Errorf("the file is being modified by another process")

// FileLock is an advisory lock of a file. It is held on a sibling file with
// the ".lock" suffix, so the locked file itself can be replaced by rename.
// The lock file is never removed: a process waiting on its inode would
// otherwise hold the lock together with one which created a new file.
type FileLock struct {
	fn string
	fl *flock.Flock
}

// Lock acquires the lock of path without waiting. ErrLocked (see
// errors.Cause) is returned if another holder has it.
func Lock(path string) (*FileLock, error) {
	fn := path + lockFileExt
	fl := flock.New(fn)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "could not lock %s", fn)
	}
	if !ok {
		logger.Warn("Could not get lock for ", fn)
		return nil, errors.Wrapf(ErrLocked, "%s", path)
	}
	logger.Debug("Locked ", fn)
	return &FileLock{fn: fn, fl: fl}, nil
}

// Unlock releases the lock, the lock file stays in place
func (l *FileLock) Unlock() error {
	if l.fl == nil {
		panic("Must be locked!")
	}
	err := l.fl.Unlock()
	l.fl = nil
	logger.Debug("Unlocked ", l.fn)
	return err
}
