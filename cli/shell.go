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
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/mohae/deepcopy"
	"github.com/peterh/liner"
)

type (
	shell struct {
		sc    *shellConfig
		hfile string
	}

	shellConfig struct {
		cfg    *Config
		file   string
		output string
		w      io.Writer
	}
)

const (
	shellHistoryFileName = ".pngmsg_history"
)

// Shell runs the interactive shell over file. The shell works with its own
// copy of cfg, so the set statements do not affect the caller.
func Shell(cfg *Config, file string) error {
	if _, err := os.Stat(file); err != nil {
		return err
	}
	newShell(newShellConfig(cfg, file, os.Stdout), historyFilePath()).run()
	return nil
}

func newShellConfig(cfg *Config, file string, w io.Writer) *shellConfig {
	return &shellConfig{
		cfg:  deepcopy.Copy(cfg).(*Config),
		file: file,
		w:    w,
	}
}

func historyFilePath() string {
	var fileDir = os.TempDir()
	usr, err := user.Current()
	if err == nil {
		fileDir = usr.HomeDir
	}
	return filepath.Join(fileDir, shellHistoryFileName)
}

func printError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
}

//===================== shell =====================

func newShell(sc *shellConfig, hFile string) *shell {
	s := new(shell)
	s.sc = sc
	s.hfile = hFile
	return s
}

func (s *shell) run() {
	lnr := liner.NewLiner()
	lnr.SetCtrlCAborts(true)

	s.loadHistory(lnr)
	defer func() {
		s.saveHistory(lnr)
		_ = lnr.Close()
		fmt.Println("bye!")
	}()

	prompt := filepath.Base(s.sc.file) + ">"
	for {
		inp, err := lnr.Prompt(prompt)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
			printError(err)
		}

		inp = strings.TrimSpace(inp)
		if inp == "" {
			continue
		}

		lnr.AppendHistory(inp)
		err = execStmt(inp, s.sc)
		if err == errQuit {
			break
		}
		if err != nil {
			printError(err)
		}
	}
}

func (s *shell) loadHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_RDONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.ReadHistory(f); err != nil {
		printError(err)
	}
}

func (s *shell) saveHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		printError(err)
		return
	}
	defer f.Close()
	if _, err = lnr.WriteHistory(f); err != nil {
		printError(err)
	}
}
