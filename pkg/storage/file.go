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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/jrivets/log4g"
	"github.com/logrange/range/pkg/utils/fileutil"
	"github.com/pkg/errors"
)

const (
	// DefaultTempExt is the extension of the temporary file ReplaceFile
	// writes to before renaming it over the target.
	DefaultTempExt = "png.temp"

	DefaultFileMode os.FileMode = 0644
)

var logger = log4g.GetLogger("pngmsg.storage")

// ReadFile reads the whole file into memory
func ReadFile(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read file %s", path)
	}
	logger.Debug("Read ", len(data), " bytes from ", path)
	return data, nil
}

// WriteFile writes data to path, the parent directory is created if needed.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := fileutil.EnsureDirExists(dir); err != nil {
			return errors.Wrapf(err, "could not create directory %s", dir)
		}
	}
	if err := ioutil.WriteFile(path, data, perm); err != nil {
		return errors.Wrapf(err, "could not write file %s", path)
	}
	logger.Debug("Written ", len(data), " bytes to ", path)
	return nil
}

// TempPath returns the name of the temporary file used for replacing path
func TempPath(path, tempExt string) string {
	if tempExt == "" {
		tempExt = DefaultTempExt
	}
	tmp := fileutil.SetFileExt(path, tempExt)
	if tmp == path {
		tmp += ".tmp"
	}
	return tmp
}

// ReplaceFile overwrites path with data so that a crash never leaves path
// partially written: data goes to a temporary file first, which is then
// renamed over path. The temporary file is removed if anything fails. The
// permissions of an existing path are kept, perm is used otherwise.
func ReplaceFile(path, tempExt string, data []byte, perm os.FileMode) (err error) {
	if fi, serr := os.Stat(path); serr == nil {
		perm = fi.Mode().Perm()
	}

	tmp := TempPath(path, tempExt)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "could not create temporary file %s", tmp)
	}

	defer func() {
		if err != nil {
			logger.Warn("Could not replace ", path, ", removing ", tmp, " err=", err)
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not write temporary file %s", tmp)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not sync temporary file %s", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "could not close temporary file %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "could not rename %s to %s", tmp, path)
	}
	logger.Debug("Replaced ", path, " with ", len(data), " bytes via ", tmp)
	return nil
}
