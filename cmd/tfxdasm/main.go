// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Command tfxdasm decodes shader parameter bytecode and prints its
// disassembly, its symbolic decompilation and, when requested, the values it
// evaluates to. Without a file argument it starts a REPL that accepts hex
// encoded bytecode.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/peterh/liner"

	"github.com/ozanh/tfx"
)

const (
	title        = "tfxdasm"
	promptPrefix = ">>> "
)

var (
	bigEndian bool
	strict    bool
	noEval    bool
	hexExpr   string
)

// Sentinel errors for repl.
var (
	errExit  = errors.New("exit")
	errReset = errors.New("reset")
)

var suggestions []suggest

type suggest struct {
	text        string
	description string
	typ         string
}

// stateConfig is the TOML shape accepted by -state: a constants table,
// overrides for the frame block and global channel values keyed by slot.
type stateConfig struct {
	Constants [][4]float32 `toml:"constants"`

	Frame struct {
		GameTime      float32 `toml:"game_time"`
		RenderTime    float32 `toml:"render_time"`
		ExposureScale float32 `toml:"exposure_scale"`
	} `toml:"frame"`

	Channels map[string][4]float32 `toml:"channels"`
}

func loadState(path string) (*tfx.Storage, []tfx.Vec4, error) {
	storage := tfx.NewStorage()
	if path == "" {
		return storage, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg stateConfig
	cfg.Frame.GameTime = 1
	cfg.Frame.RenderTime = 1
	cfg.Frame.ExposureScale = 1
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("state file %s: %w", path, err)
	}

	storage.Frame.GameTime = cfg.Frame.GameTime
	storage.Frame.RenderTime = cfg.Frame.RenderTime
	storage.Frame.ExposureScale = cfg.Frame.ExposureScale

	for slot, v := range cfg.Channels {
		n, err := strconv.Atoi(slot)
		if err != nil || n < 0 || n >= tfx.NumGlobalChannels {
			return nil, nil, fmt.Errorf("state file %s: bad channel slot %q", path, slot)
		}
		storage.GlobalChannels[n].Value = tfx.Vec4(v)
	}

	constants := make([]tfx.Vec4, len(cfg.Constants))
	for i, c := range cfg.Constants {
		constants[i] = tfx.Vec4(c)
	}
	return storage, constants, nil
}

// parseHex accepts hex bytes with optional whitespace, commas and 0x
// prefixes between them.
func parseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', ',':
			return -1
		}
		return r
	}, s)
	clean = strings.ReplaceAll(clean, "0x", "")
	return hex.DecodeString(clean)
}

func byteOrder() binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

type session struct {
	out       io.Writer
	storage   *tfx.Storage
	constants []tfx.Vec4
	commands  map[string]func(string) error
	lastOps   []tfx.Op
}

func newSession(out io.Writer, storage *tfx.Storage, constants []tfx.Vec4) *session {
	s := &session{
		out:       out,
		storage:   storage,
		constants: constants,
	}
	s.commands = map[string]func(string) error{
		".commands": s.cmdCommands,
		".ops":      s.cmdOps,
		".externs":  s.cmdExterns,
		".diags":    s.cmdDiags,
		".reads":    s.cmdReads,
		".last":     s.cmdLast,
		".reset":    func(string) error { return errReset },
		".exit":     func(string) error { return errExit },
	}
	return s
}

func (s *session) cmdCommands(_ string) error {
	var maxtext int
	for _, v := range suggestions {
		if v.typ == "" && maxtext < len(v.text) {
			maxtext = len(v.text)
		}
	}
	for _, v := range suggestions {
		if v.typ != "" {
			continue
		}
		_, _ = fmt.Fprintf(s.out, "%-*s\t%s\n", maxtext, v.text, v.description)
	}
	return nil
}

func (s *session) cmdOps(_ string) error {
	for code, name := range tfx.OpcodeNames {
		if name == "" {
			continue
		}
		_, _ = fmt.Fprintf(s.out, "0x%02x  %s\n", code, name)
	}
	return nil
}

func (s *session) cmdExterns(_ string) error {
	for e := tfx.Extern(1); e.IsValid(); e++ {
		_, _ = fmt.Fprintf(s.out, "%3d  %s\n", byte(e), e)
	}
	return nil
}

func (s *session) cmdDiags(_ string) error {
	diags := s.storage.Diags().Snapshot()
	if len(diags) == 0 {
		_, _ = fmt.Fprintln(s.out, "no diagnostics")
		return nil
	}
	for _, d := range diags {
		_, _ = fmt.Fprintf(s.out, "[%s] %s (x%d)\n", d.Kind, d.Message, d.Count)
	}
	return nil
}

func (s *session) cmdReads(_ string) error {
	reads := s.storage.ChannelReads()
	type slotCount struct{ slot, count int }
	var nonzero []slotCount
	for slot, count := range reads {
		if count > 0 {
			nonzero = append(nonzero, slotCount{slot, int(count)})
		}
	}
	sort.Slice(nonzero, func(i, j int) bool { return nonzero[i].slot < nonzero[j].slot })
	for _, sc := range nonzero {
		ch := s.storage.GlobalChannels[sc.slot]
		_, _ = fmt.Fprintf(s.out, "channel %3d read %d time(s)", sc.slot, sc.count)
		if ch.Name != "" {
			_, _ = fmt.Fprintf(s.out, "  (%s)", ch.Name)
		}
		_, _ = fmt.Fprintln(s.out)
	}
	return nil
}

func (s *session) cmdLast(_ string) error {
	if s.lastOps == nil {
		_, _ = fmt.Fprintln(s.out, "nothing decoded yet")
		return nil
	}
	p := &tfx.Program{Ops: s.lastOps, Constants: s.constants}
	p.Fprint(s.out)
	return nil
}

// process decodes one buffer and prints everything we can derive from it.
func (s *session) process(data []byte) error {
	ops, err := tfx.Decode(data, byteOrder())
	if err != nil {
		return err
	}
	s.lastOps = ops

	p := &tfx.Program{Ops: ops, Constants: s.constants}
	p.Fprint(s.out)

	d, err := tfx.Decompile(ops, s.constants)
	if err != nil {
		_, _ = fmt.Fprintf(s.out, "decompile: %v\n", err)
	} else if text := d.String(); text != "" {
		_, _ = fmt.Fprintf(s.out, "\n%s", text)
	}

	if noEval {
		return nil
	}

	output := make([]tfx.Vec4, maxOutputElement(ops)+1)
	vm := tfx.NewInterpreter(ops).SetStrict(strict)
	if err := vm.Evaluate(nil, s.storage, output, s.constants, nil, nil); err != nil {
		_, _ = fmt.Fprintf(s.out, "evaluate: %v\n", err)
		return nil
	}
	if len(output) > 0 {
		_, _ = fmt.Fprintf(s.out, "\nOutput:\n")
		for i, v := range output {
			_, _ = fmt.Fprintf(s.out, "%4d: %v\n", i, v)
		}
	}
	return nil
}

// maxOutputElement sizes the output buffer from the ops that address it.
func maxOutputElement(ops []tfx.Op) int {
	max := -1
	for _, op := range ops {
		switch op.Code {
		case tfx.OpPopOutput, tfx.OpPushFromOutput:
			if int(op.A) > max {
				max = int(op.A)
			}
		case tfx.OpPopOutputMat4:
			if int(op.A)+3 > max {
				max = int(op.A) + 3
			}
		}
	}
	return max
}

func (s *session) execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if line[0] == '.' {
		cmd := strings.Fields(line)[0]
		if fn, ok := s.commands[cmd]; ok {
			return fn(line)
		}
		_, _ = fmt.Fprintf(s.out, "unknown command %s\n", cmd)
		return nil
	}

	data, err := parseHex(line)
	if err != nil {
		_, _ = fmt.Fprintf(s.out, "!   %v\n", err)
		return nil
	}
	if err := s.process(data); err != nil {
		_, _ = fmt.Fprintf(s.out, "!   %v\n", err)
	}
	return nil
}

func (s *session) printInfo() {
	_, _ = fmt.Fprintln(s.out, "Copyright (c) 2020-2023 Ozan Hacıbekiroğlu")
	_, _ = fmt.Fprintln(s.out, "Enter hex encoded bytecode to decode it")
	_, _ = fmt.Fprintln(s.out, "Write .commands to list available commands")
	_, _ = fmt.Fprintln(s.out, "Press Ctrl+D or write .exit command to exit")
	_, _ = fmt.Fprintln(s.out)
}

func (s *session) run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetMultiLineMode(true)
	line.SetCompleter(complete)
	s.printInfo()

	var str string
	var err error

	for err == nil {
		str, err = line.Prompt(promptPrefix)
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			break
		}
		err = s.execute(str)
		if err == nil {
			if v := strings.TrimSpace(str); len(v) > 0 {
				line.AppendHistory(v)
			}
		}
	}
	return err
}

func complete(line string) (completions []string) {
	var contains []string
	for _, v := range suggestions {
		if strings.HasPrefix(v.text, line) {
			completions = append(completions, v.text)
		} else if strings.Contains(v.text, line) {
			contains = append(contains, v.text)
		}
	}
	completions = append(completions, contains...)
	return
}

func initSuggestions() {
	suggestions = []suggest{
		{text: ".commands", description: "Print REPL commands"},
		{text: ".ops", description: "Print known opcodes"},
		{text: ".externs", description: "Print extern identifiers"},
		{text: ".diags", description: "Print accumulated diagnostics"},
		{text: ".reads", description: "Print global channel read counters"},
		{text: ".last", description: "Print the last decoded program"},
		{text: ".reset", description: "Reset"},
		{text: ".exit", description: "Exit"},
	}
	for _, name := range tfx.OpcodeNames {
		if name == "" {
			continue
		}
		suggestions = append(suggestions, suggest{text: name, typ: "opcode"})
	}
}

func parseFlags(flagset *flag.FlagSet, args []string) (filePath string, statePath string, err error) {
	flagset.BoolVar(&bigEndian, "be", false,
		"Decode multi-byte operands as big-endian")
	flagset.BoolVar(&strict, "strict", false,
		"Fail evaluation on opcodes with unconfirmed semantics")
	flagset.BoolVar(&noEval, "no-eval", false,
		"Only disassemble and decompile, do not evaluate")
	flagset.StringVar(&statePath, "state", "",
		"TOML file with constants, frame values and channel overrides")
	flagset.StringVar(&hexExpr, "e", "",
		"Hex encoded bytecode to process, instead of a file or REPL")

	flagset.Usage = func() {
		_, _ = fmt.Fprint(flagset.Output(),
			"Usage: tfxdasm [flags] [bytecode file]\n\n",
			"The file may contain raw bytecode or hex text.\n",
			"If no file is provided, a REPL is started\n",
			"Use - to read from stdin\n\n",
			"\nFlags:\n",
		)
		flagset.PrintDefaults()
	}

	if err = flagset.Parse(args); err != nil {
		return
	}
	if flagset.NArg() != 1 {
		return
	}
	filePath = flagset.Arg(0)
	if filePath == "-" {
		return
	}
	_, err = os.Stat(filePath)
	return
}

// readBytecode loads a file as raw bytecode, falling back to hex text when
// the content parses as hex.
func readBytecode(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if parsed, err := parseHex(strings.TrimSpace(string(data))); err == nil {
		return parsed, nil
	}
	return data, nil
}

func main() {
	filePath, statePath, err := parseFlags(flag.CommandLine, os.Args[1:])
	checkErr(err)

	storage, constants, err := loadState(statePath)
	checkErr(err)

	if hexExpr != "" {
		data, err := parseHex(hexExpr)
		checkErr(err)
		checkErr(newSession(os.Stdout, storage, constants).process(data))
		return
	}

	if len(filePath) > 0 {
		var data []byte
		if filePath == "-" {
			data, err = readBytecode(os.Stdin)
		} else {
			var f *os.File
			f, err = os.Open(filePath)
			if err == nil {
				data, err = readBytecode(f)
				_ = f.Close()
			}
		}
		checkErr(err)

		s := newSession(os.Stdout, storage, constants)
		checkErr(s.process(data))
		return
	}

	initSuggestions()

L:
	for {
		err = newSession(os.Stdout, storage, constants).run()
		if err != nil {
			switch err {
			case errReset:
				storage, constants, err = loadState(statePath)
				checkErr(err)
				continue
			case errExit:
				break L
			}
			checkErr(err)
		}
		break
	}
}

func checkErr(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}
