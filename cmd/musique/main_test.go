package main

import "testing"

func TestParseArgsFlagForms(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want options
		rest []string
	}{
		{
			name: "space-separated",
			args: []string{"--midi-port", "IAC Bus 1", "run", "a.mq"},
			want: options{midiPort: "IAC Bus 1"},
			rest: []string{"run", "a.mq"},
		},
		{
			name: "equals-form",
			args: []string{"--midi-port=IAC Bus 1", "run", "a.mq"},
			want: options{midiPort: "IAC Bus 1"},
			rest: []string{"run", "a.mq"},
		},
		{
			name: "short-flag",
			args: []string{"-c", "musique.ini", "repl"},
			want: options{configPath: "musique.ini"},
			rest: []string{"repl"},
		},
		{
			name: "help",
			args: []string{"--help"},
			want: options{showHelp: true},
			rest: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rest := parseArgs(tc.args)
			if got != tc.want {
				t.Errorf("parseArgs(%v) opts = %+v, want %+v", tc.args, got, tc.want)
			}
			if len(rest) != len(tc.rest) {
				t.Fatalf("parseArgs(%v) rest = %v, want %v", tc.args, rest, tc.rest)
			}
			for i := range rest {
				if rest[i] != tc.rest[i] {
					t.Errorf("parseArgs(%v) rest[%d] = %q, want %q", tc.args, i, rest[i], tc.rest[i])
				}
			}
		})
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	if code := run([]string{"bogus"}); code != exitUsage {
		t.Errorf("run([bogus]) = %d, want %d", code, exitUsage)
	}
}

func TestMissingArgIsUsageError(t *testing.T) {
	if code := run([]string{"run"}); code != exitUsage {
		t.Errorf("run([run]) = %d, want %d", code, exitUsage)
	}
}

func TestExportMissingArgsIsUsageError(t *testing.T) {
	if code := run([]string{"export"}); code != exitUsage {
		t.Errorf("run([export]) = %d, want %d", code, exitUsage)
	}
	if code := run([]string{"export", "a.mq"}); code != exitUsage {
		t.Errorf("run([export a.mq]) = %d, want %d", code, exitUsage)
	}
}
