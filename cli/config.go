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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/jrivets/log4g"
	"github.com/logrange/pngmsg/pkg/storage"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Config struct defines the pngmsg settings
type Config struct {
	// TempExt is the extension of the temporary file used when a file is
	// changed in place. The default is "png.temp", so image.png is first
	// written to image.png.temp
	TempExt string

	// FileMode contains permissions of newly created files. In the config
	// file it could be a number or a string, "0644" is read as octal.
	FileMode uint32

	// NoLock disables the advisory lock held while a file is modified
	NoLock bool

	// Verbose makes print show per chunk properties and fingerprints
	Verbose bool

	// Fields makes decode parse the message as logfmt key=value pairs
	Fields bool
}

var configLog = log4g.GetLogger("pngmsg.config")

// GetDefaultConfig returns the configuration used when nothing is specified
func GetDefaultConfig() *Config {
	c := new(Config)
	c.TempExt = storage.DefaultTempExt
	c.FileMode = uint32(storage.DefaultFileMode)
	return c
}

// Apply overrides c's properties by non-default values from cfg
func (c *Config) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if len(cfg.TempExt) > 0 {
		c.TempExt = cfg.TempExt
	}
	if cfg.FileMode > 0 {
		c.FileMode = cfg.FileMode
	}
	if cfg.NoLock {
		c.NoLock = true
	}
	if cfg.Verbose {
		c.Verbose = true
	}
	if cfg.Fields {
		c.Fields = true
	}
}

// Check returns an error if the configuration could not be used
func (c *Config) Check() error {
	if strings.Trim(c.TempExt, ".") == "" {
		return fmt.Errorf("TempExt must be non-empty")
	}
	if strings.ContainsAny(c.TempExt, "/\\") {
		return fmt.Errorf("TempExt=%q must not contain path separators", c.TempExt)
	}
	if c.FileMode == 0 || c.FileMode > 0777 {
		return fmt.Errorf("FileMode=%o must be in (0, 0777]", c.FileMode)
	}
	return nil
}

// Editor returns storage.Editor configured by c
func (c *Config) Editor() *storage.Editor {
	return &storage.Editor{
		TempExt:  c.TempExt,
		FileMode: os.FileMode(c.FileMode),
		NoLock:   c.NoLock,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("{TempExt=%s, FileMode=%o, NoLock=%t, Verbose=%t, Fields=%t}",
		c.TempExt, c.FileMode, c.NoLock, c.Verbose, c.Fields)
}

// ReadConfigFromFile reads the JSON config file filename. It returns nil, if
// filename is empty or not found.
func ReadConfigFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		configLog.Warn("There is no file ", filename, " for reading pngmsg config, will use default configuration.")
		return nil, nil
	}

	cfgData, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read data from config file %s", filename)
	}

	var params map[string]interface{}
	if err = json.Unmarshal(cfgData, &params); err != nil {
		return nil, errors.Wrapf(err, "Could not unmarshal json data from config file %s", filename)
	}

	c := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return nil, err
	}
	if err = dec.Decode(params); err != nil {
		return nil, errors.Wrapf(err, "Could not decode config file %s", filename)
	}

	configLog.Info("Configuration read from ", filename)
	return c, nil
}
