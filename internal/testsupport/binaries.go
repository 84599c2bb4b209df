package testsupport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// StubOptions controls the behaviour of a stub ffmpeg script.
type StubOptions struct {
	// FailOn makes the stub fail for inputs whose path contains the substring.
	FailOn string
	// Diagnostic is printed when the stub fails. Defaults to a generic error line.
	Diagnostic string
	// ExitCode is used when the stub fails. Zero keeps the "diagnostics with a
	// clean exit" behaviour some ffmpeg builds show.
	ExitCode int
	// Warning is printed on every successful invocation when non-empty.
	Warning string
}

// StubFFmpeg writes an executable shell script that mimics the subset of
// ffmpeg alacflac relies on: it copies the file following -i to the last
// argument. Every input path is appended to the returned log file.
func StubFFmpeg(t testing.TB, opts StubOptions) (binary string, logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub ffmpeg requires /bin/sh")
	}

	dir := t.TempDir()
	binary = filepath.Join(dir, "ffmpeg")
	logPath = filepath.Join(dir, "invocations.log")
	diagnostic := opts.Diagnostic
	if diagnostic == "" {
		diagnostic = "Error while decoding stream #0:0: Invalid data found when processing input"
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("in=''\nout=''\nprev=''\n")
	b.WriteString("for arg in \"$@\"; do\n  if [ \"$prev\" = \"-i\" ]; then in=\"$arg\"; fi\n  prev=\"$arg\"\n  out=\"$arg\"\ndone\n")
	fmt.Fprintf(&b, "printf '%%s\\n' \"$in\" >> %s\n", shellQuote(logPath))
	b.WriteString("cp \"$in\" \"$out\" || exit 1\n")
	if opts.FailOn != "" {
		fmt.Fprintf(&b, "case \"$in\" in *%s*) echo %s; exit %d;; esac\n",
			shellQuote(opts.FailOn), shellQuote(diagnostic), opts.ExitCode)
	}
	if opts.Warning != "" {
		fmt.Fprintf(&b, "echo %s >&2\n", shellQuote(opts.Warning))
	}
	b.WriteString("exit 0\n")

	if err := os.WriteFile(binary, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write stub ffmpeg: %v", err)
	}
	return binary, logPath
}

// StubOnPath prepends the directory holding binary to PATH for the test.
func StubOnPath(t *testing.T, binary string) {
	t.Helper()
	dir := filepath.Dir(binary)
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// Invocations returns the input paths a stub recorded, in call order.
func Invocations(t testing.TB, logPath string) []string {
	t.Helper()
	f, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("open invocation log: %v", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read invocation log: %v", err)
	}
	return out
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
