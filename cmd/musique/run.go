package main

import (
	"fmt"
	"os"

	"musique/internal/builtin"
	"musique/internal/config"
	"musique/internal/interp"
	"musique/internal/midiport"
	"musique/internal/muserr"
	"musique/internal/number"
	"musique/internal/parser"
	"musique/internal/value"
)

// newInterpreter builds an Interpreter with every builtin registered and a
// MIDI Port attached: a real gomidi connection when one is configured and
// reachable, else the stub ALSA-shaped seam (SupportsOutput()==false), so
// `play`/`par`/`sim` fail with spec.md §7's Operation-Requires-Midi-Connection
// rather than a generic nil-pointer panic when no hardware is present.
func newInterpreter(filename string, opts options) (*interp.Interpreter, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	portName := opts.midiPort
	if portName == "" {
		portName = cfg.MIDIPort
	}

	var port interp.Port
	var closer func()
	if real, err := midiport.Open(portName); err == nil {
		port = real
		closer = func() { real.Close() }
	} else {
		port = midiport.NewALSAPort()
		closer = func() {}
	}

	it := interp.New(filename)
	it.Port = port
	builtin.Register(it)
	applyConfigDefaults(it, cfg)

	return it, closer, nil
}

// applyConfigDefaults overlays cfg's [defaults] section onto it's starting
// Context, shared by newInterpreter and exportFile so the `run`/`eval`/
// `repl` and `export` subcommands all start from the same octave/length/bpm
// defaults.
func applyConfigDefaults(it *interp.Interpreter, cfg config.Config) {
	if cfg.DefaultOctave != 0 {
		it.Context.Octave = cfg.DefaultOctave
	}
	it.Context.BPM = cfg.DefaultBPM
	if cfg.DefaultLength != "" {
		if n, err := number.ParseFraction(cfg.DefaultLength); err == nil {
			it.Context.Length = n
		}
	}
}

func loadConfig(opts options) (config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	return config.LoadDefaultPath()
}

// runFile implements the `run` subcommand: parse and evaluate filename to
// completion, exiting exitRecoverable on any error surfaced at top level.
func runFile(filename string, opts options) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
		return exitRecoverable
	}

	it, closer, err := newInterpreter(filename, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRecoverable
	}
	defer closer()
	defer it.TurnOffAllActiveNotes()

	if err := evalSource(it, filename, string(source)); err != nil {
		reportError(err, string(source))
		return exitRecoverable
	}
	return exitSuccess
}

// loadFile implements the `load` subcommand: parse filename without
// evaluating it and report whether it parsed. The parsed program is not
// kept and nothing in it is run; no later command can invoke it.
func loadFile(filename string) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
		return exitRecoverable
	}
	if _, err := parser.Parse(filename, string(source)); err != nil {
		reportError(err, string(source))
		return exitRecoverable
	}
	fmt.Printf("%s: OK\n", filename)
	return exitSuccess
}

// evalInline implements the `eval` subcommand: evaluate code and print its
// final Value.
func evalInline(code string, opts options) int {
	it, closer, err := newInterpreter("<eval>", opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRecoverable
	}
	defer closer()
	defer it.TurnOffAllActiveNotes()

	v, err := evalSourceValue(it, "<eval>", code)
	if err != nil {
		reportError(err, code)
		return exitRecoverable
	}
	fmt.Println(v.String())
	return exitSuccess
}

// evalSource parses and evaluates source under filename, discarding the
// result — used by `run`, which cares only about side effects (MIDI
// output) and errors.
func evalSource(it *interp.Interpreter, filename, source string) error {
	_, err := evalSourceValue(it, filename, source)
	return err
}

func evalSourceValue(it *interp.Interpreter, filename, source string) (value.Value, error) {
	node, err := parser.Parse(filename, source)
	if err != nil {
		return value.Nil, err
	}
	return it.Eval(node)
}

// reportError pretty-prints err using muserr.Pretty when it carries a
// source range, else falls back to a plain one-line message.
func reportError(err error, source string) {
	fmt.Fprint(os.Stderr, reportErrorString(err, source))
}

// reportErrorString is reportError's pure counterpart, used by the REPL to
// fold the message into a transcript line instead of writing to stderr.
func reportErrorString(err error, source string) string {
	if e, ok := muserr.As(err); ok {
		return muserr.Pretty(e, source)
	}
	return fmt.Sprintf("Error: %v\n", err)
}
