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

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jrivets/log4g"
	pcli "github.com/logrange/pngmsg/cli"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"
)

const (
	Version = "0.1.0"
)

const (
	// Common flag names
	argLogCfgFile = "log-config-file"
	argCfgFile    = "config-file"

	// Command flag names
	argNoLock  = "no-lock"
	argOutput  = "output"
	argFields  = "fields"
	argVerbose = "verbose"
)

var log = log4g.GetLogger("pngmsg")
var cfg = pcli.GetDefaultConfig()

// main is the entry point of pngmsg, which hides text messages in PNG files.
// The commands are:
//		encode	- stores a message into a new chunk
//		decode	- prints the message of the first chunk of a type
//		remove	- removes the first chunk of a type
//		print	- prints all chunks of a file
//		shell	- runs the interactive shell over a file
func main() {
	defer log4g.Shutdown()

	app := &cli.App{
		Name:    "pngmsg",
		Version: Version,
		Usage:   "Hide secret messages in PNG files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  argLogCfgFile,
				Usage: "The log4g configuration file name",
			},
			&cli.StringFlag{
				Name:  argCfgFile,
				Usage: "The pngmsg configuration file name",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode a message into a PNG file",
				UsageText: "pngmsg encode [command options] <file> <chunk type> <message> [output file]",
				Action:    runEncode,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  argNoLock,
						Usage: "do not lock the file while it is modified",
					},
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode a message from a PNG file",
				UsageText: "pngmsg decode [command options] <file> <chunk type>",
				Action:    runDecode,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  argFields,
						Usage: "parse the message as logfmt key=value pairs",
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a message from a PNG file",
				UsageText: "pngmsg remove [command options] <file> <chunk type>",
				Action:    runRemove,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  argOutput,
						Usage: "write the result to the file instead of changing the source one",
					},
					&cli.BoolFlag{
						Name:  argNoLock,
						Usage: "do not lock the file while it is modified",
					},
				},
			},
			{
				Name:      "print",
				Usage:     "Print all chunks of a PNG file",
				UsageText: "pngmsg print [command options] <file>",
				Action:    runPrint,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  argVerbose,
						Usage: "print chunk properties and fingerprints",
					},
				},
			},
			{
				Name:      "shell",
				Usage:     "Run the interactive shell over a PNG file",
				UsageText: "pngmsg shell <file>",
				Action:    runShell,
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		log4g.Shutdown()
		os.Exit(1)
	}
}

func before(c *cli.Context) error {
	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		if _, err := os.Stat(logCfgFile); os.IsNotExist(err) {
			log.Warn("No file ", logCfgFile, " will use default log4g configuration")
		} else {
			log.Info("Loading log4g config from ", logCfgFile)
			err := log4g.ConfigF(logCfgFile)
			if err != nil {
				err := errors.Wrapf(err, "Could not parse %s file as a log4g configuration, please check syntax ", logCfgFile)
				log.Fatal(err)
				return err
			}
		}
	}

	fc, err := pcli.ReadConfigFromFile(c.String(argCfgFile))
	if err != nil {
		return err
	}
	// overwrite default settings from file
	cfg.Apply(fc)
	return nil
}

func runEncode(c *cli.Context) error {
	if err := checkArgs(c, "encode", 3, 4); err != nil {
		return err
	}
	if err := applyArgsToCfg(c); err != nil {
		return err
	}
	return pcli.NewRunner(cfg, os.Stdout).Encode(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), c.Args().Get(3))
}

func runDecode(c *cli.Context) error {
	if err := checkArgs(c, "decode", 2, 2); err != nil {
		return err
	}
	if err := applyArgsToCfg(c); err != nil {
		return err
	}
	return pcli.NewRunner(cfg, os.Stdout).Decode(c.Args().Get(0), c.Args().Get(1))
}

func runRemove(c *cli.Context) error {
	if err := checkArgs(c, "remove", 2, 2); err != nil {
		return err
	}
	if err := applyArgsToCfg(c); err != nil {
		return err
	}
	return pcli.NewRunner(cfg, os.Stdout).Remove(c.Args().Get(0), c.Args().Get(1), c.String(argOutput))
}

func runPrint(c *cli.Context) error {
	if err := checkArgs(c, "print", 1, 1); err != nil {
		return err
	}
	if err := applyArgsToCfg(c); err != nil {
		return err
	}
	return pcli.NewRunner(cfg, os.Stdout).Print(c.Args().Get(0))
}

func runShell(c *cli.Context) error {
	if err := checkArgs(c, "shell", 1, 1); err != nil {
		return err
	}
	if err := applyArgsToCfg(c); err != nil {
		return err
	}
	return pcli.Shell(cfg, c.Args().Get(0))
}

func checkArgs(c *cli.Context, cmd string, min, max int) error {
	if n := c.Args().Len(); n < min || n > max {
		return fmt.Errorf("%s expects from %d to %d arguments, but %d given, see 'pngmsg help %s'", cmd, min, max, n, cmd)
	}
	return nil
}

func applyArgsToCfg(c *cli.Context) error {
	if c.Bool(argNoLock) {
		cfg.NoLock = true
	}
	if c.Bool(argFields) {
		cfg.Fields = true
	}
	if c.Bool(argVerbose) {
		cfg.Verbose = true
	}
	if err := cfg.Check(); err != nil {
		return errors.Wrapf(err, "invalid configuration %s", cfg)
	}
	log.Debug("Running with config ", cfg)
	return nil
}
