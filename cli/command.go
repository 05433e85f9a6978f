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
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	stmtLexerDef = lexer.Must(newStmtDefinition(`(\s+)` +
		`|(?P<Keyword>(?i)ENCODE|DECODE|REMOVE|PRINT|VERBOSE|SET|HELP|QUIT|EXIT)` +
		`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_\-]*)` +
		`|(?P<String>"([^\\"]|\\.)*"|'([^\\']|\\.)*')` +
		`|(?P<Operator>=)` +
		`|(?P<Value>[^\s"'=]+)`,
	))

	stmtParser = participle.MustBuild(
		&Statement{},
		participle.Lexer(stmtLexerDef),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
	)
)

const (
	optOutput  = "output"
	optVerbose = "verbose"
	optFields  = "fields"
)

type (
	// Statement is one line of the shell
	Statement struct {
		Encode *Encode `parser:"  @@"`
		Decode *Decode `parser:"| @@"`
		Remove *Remove `parser:"| @@"`
		Print  *Print  `parser:"| @@"`
		Set    *Set    `parser:"| @@"`
		Help   string  `parser:"| @\"HELP\""`
		Quit   string  `parser:"| @(\"QUIT\"|\"EXIT\")"`
	}

	// Chunk types like "quit" or "help" are lexed as keywords, so the type
	// positions accept keywords as well.
	Encode struct {
		Type    string `parser:"\"ENCODE\" @(Ident|String|Keyword)"`
		Message string `parser:"@(String|Ident|Keyword|Value)"`
	}

	Decode struct {
		Type string `parser:"\"DECODE\" @(Ident|String|Keyword)"`
	}

	Remove struct {
		Type string `parser:"\"REMOVE\" @(Ident|String|Keyword)"`
	}

	Print struct {
		Cmd     string `parser:"@\"PRINT\""`
		Verbose string `parser:"[ @\"VERBOSE\" ]"`
	}

	Set struct {
		Options []*Option `parser:"\"SET\" @@ { @@ }"`
	}

	Option struct {
		Key   string `parser:"@(Ident|Keyword) \"=\""`
		Value string `parser:"@(String|Ident|Value)"`
	}

	stmtHelp struct {
		syntax string
		help   string
	}
)

var stmtHelps = []stmtHelp{
	{"encode <type> \"<message>\"", "append the message as a new chunk, e.g. 'encode ruSt \"hi there\"'"},
	{"decode <type>", "show the first chunk of the type"},
	{"remove <type>", "remove the first chunk of the type"},
	{"print [verbose]", "show all chunks"},
	{"set <option>=<value> ...", "set options: output=<file>, verbose=on|off, fields=on|off"},
	{"help", "show help"},
	{"quit", "exit the program"},
}

// errQuit is returned by execStmt when the shell should stop
var errQuit = fmt.Errorf("quit")

// ParseStatement parses one shell line
func ParseStatement(s string) (*Statement, error) {
	stmt := &Statement{}
	if err := stmtParser.ParseString(s, stmt); err != nil {
		return nil, err
	}
	return stmt, nil
}

// execStmt parses and runs input over the shell's file. Every statement reads
// the file anew, so changes made by others between statements are seen.
func execStmt(input string, sc *shellConfig) error {
	stmt, err := ParseStatement(input)
	if err != nil {
		return fmt.Errorf("invalid statement %q: %s, type 'help' for the syntax", input, err)
	}

	r := NewRunner(sc.cfg, sc.w)
	switch {
	case stmt.Encode != nil:
		return r.Encode(sc.file, stmt.Encode.Type, stmt.Encode.Message, sc.output)
	case stmt.Decode != nil:
		return r.Decode(sc.file, stmt.Decode.Type)
	case stmt.Remove != nil:
		return r.Remove(sc.file, stmt.Remove.Type, sc.output)
	case stmt.Print != nil:
		if stmt.Print.Verbose != "" && !sc.cfg.Verbose {
			cfg := *sc.cfg
			cfg.Verbose = true
			r = NewRunner(&cfg, sc.w)
		}
		return r.Print(sc.file)
	case stmt.Set != nil:
		return setOptions(stmt.Set.Options, sc)
	case stmt.Help != "":
		printHelp(sc.w)
		return nil
	case stmt.Quit != "":
		return errQuit
	}
	return fmt.Errorf("unknown statement %q", input)
}

func setOptions(opts []*Option, sc *shellConfig) error {
	for _, o := range opts {
		switch strings.ToLower(o.Key) {
		case optOutput:
			sc.output = o.Value
		case optVerbose:
			v, err := parseOnOff(o.Value)
			if err != nil {
				return err
			}
			sc.cfg.Verbose = v
		case optFields:
			v, err := parseOnOff(o.Value)
			if err != nil {
				return err
			}
			sc.cfg.Fields = v
		default:
			return fmt.Errorf("unknown option=%v", o.Key)
		}
		_, _ = fmt.Fprintf(sc.w, "%s=%s\n", o.Key, o.Value)
	}
	return nil
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("unknown value=%v, expected on or off", v)
}

func printHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n\t%-10s\n", "[HELP]")
	for _, h := range stmtHelps {
		_, _ = fmt.Fprintf(w, "\n\t%-28s %s", h.syntax, h.help)
	}
	_, _ = fmt.Fprint(w, "\n\n")
}
