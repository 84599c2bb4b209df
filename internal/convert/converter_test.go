package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alacflac/internal/audiofmt"
	"alacflac/internal/testsupport"
	"alacflac/internal/transcode"
)

// fakeTranscoder writes payload to the requested output and returns the
// configured diagnostics and error.
type fakeTranscoder struct {
	calls       []transcode.Request
	payload     []byte
	diagnostics string
	err         error
	writeOutput bool
	cancel      context.CancelFunc
}

func (f *fakeTranscoder) Transcode(_ context.Context, req transcode.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.writeOutput {
		if err := os.WriteFile(req.Output, f.payload, 0o644); err != nil {
			return "", err
		}
	}
	if f.cancel != nil {
		f.cancel()
	}
	return f.diagnostics, f.err
}

func newSource(t *testing.T, name string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, name)
	testsupport.WriteFile(t, src, 32)
	return dir, src
}

func TestNewJob(t *testing.T) {
	job := NewJob("/music/a/track.M4A", audiofmt.ToFLAC)
	if job.Output != "/music/a/track.flac" {
		t.Fatalf("unexpected output %q", job.Output)
	}
	if job.Temp != "/music/a/track.flac.partial" {
		t.Fatalf("unexpected temp %q", job.Temp)
	}
	if audiofmt.ALAC.MatchesExt(job.Temp) || audiofmt.FLAC.MatchesExt(job.Temp) {
		t.Fatalf("temp path %q must not match either format", job.Temp)
	}

	back := NewJob("/music/a/track.flac", audiofmt.ToALAC)
	if back.Output != "/music/a/track.m4a" || back.Temp != "/music/a/track.m4a.partial" {
		t.Fatalf("unexpected reverse job %#v", back)
	}
}

func TestConvertSuccessRenamesTemp(t *testing.T) {
	dir, src := newSource(t, "track.m4a")
	fake := &fakeTranscoder{payload: []byte("flac-bytes"), writeOutput: true}
	var out bytes.Buffer
	c := New(fake, audiofmt.ToFLAC, WithOutput(&out))

	outcome, err := c.Convert(context.Background(), src)
	if err != nil || outcome != Converted {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}

	output := filepath.Join(dir, "track.flac")
	data, err := os.ReadFile(output)
	if err != nil || string(data) != "flac-bytes" {
		t.Fatalf("unexpected output content %q err=%v", data, err)
	}
	if _, err := os.Stat(output + TempSuffix); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err=%v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0].Output != output+TempSuffix || fake.calls[0].Target.Ext != ".flac" {
		t.Fatalf("unexpected transcoder calls %#v", fake.calls)
	}
	want := "Converting: track.m4a\n    Successfully converted: " + output + "\n"
	if out.String() != want {
		t.Fatalf("progress output\n got: %q\nwant: %q", out.String(), want)
	}
}

func TestConvertSkipsExistingOutput(t *testing.T) {
	dir, src := newSource(t, "track.flac")
	existing := filepath.Join(dir, "track.m4a")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	fake := &fakeTranscoder{writeOutput: true, payload: []byte("new")}
	var out bytes.Buffer

	outcome, err := New(fake, audiofmt.ToALAC, WithOutput(&out)).Convert(context.Background(), src)
	if err != nil || outcome != Skipped {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("transcoder must not run for existing output, got %d calls", len(fake.calls))
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep me" {
		t.Fatalf("existing output modified: %q", data)
	}
	if out.String() != "Skipping (already exists): track.m4a\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestConvertDiagnosticOutputFails(t *testing.T) {
	dir, src := newSource(t, "track.m4a")
	fake := &fakeTranscoder{writeOutput: true, diagnostics: "Invalid data found\nsecond line"}
	var out bytes.Buffer

	outcome, err := New(fake, audiofmt.ToFLAC, WithOutput(&out)).Convert(context.Background(), src)
	if outcome != Failed || !errors.Is(err, ErrDiagnosticOutput) {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") || strings.Contains(err.Error(), "second line") {
		t.Fatalf("error should carry the first diagnostic line, got %q", err)
	}
	if got := testsupport.Tree(t, dir); len(got) != 1 || got[0] != "track.m4a" {
		t.Fatalf("expected only the source to remain, got %v", got)
	}
	if !strings.Contains(out.String(), "Invalid data found\nsecond line\n") {
		t.Fatalf("diagnostics should be printed, got %q", out.String())
	}
}

func TestConvertProcessErrorFails(t *testing.T) {
	dir, src := newSource(t, "track.m4a")
	fake := &fakeTranscoder{writeOutput: true, err: errors.New("exec: \"ffmpeg\": executable file not found in $PATH")}
	var out bytes.Buffer

	outcome, err := New(fake, audiofmt.ToFLAC, WithOutput(&out)).Convert(context.Background(), src)
	if outcome != Failed || !errors.Is(err, ErrProcessLaunch) {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}
	if testsupport.HasSuffixFile(t, dir, TempSuffix) {
		t.Fatal("temp file left behind")
	}
	for _, want := range []string{"!!  Failed to convert: " + src, "    Error: ", "executable file not found"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in %q", want, out.String())
		}
	}
}

func TestConvertLenientPolicy(t *testing.T) {
	dir, src := newSource(t, "track.m4a")
	fake := &fakeTranscoder{writeOutput: true, payload: []byte("ok"), diagnostics: "Guessed Channel Layout"}
	var out bytes.Buffer

	outcome, err := New(fake, audiofmt.ToFLAC, WithOutput(&out), WithPolicy(PolicyExitCode)).Convert(context.Background(), src)
	if err != nil || outcome != Converted {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "track.flac")); err != nil {
		t.Fatalf("expected output: %v", err)
	}
	if !strings.Contains(out.String(), "Guessed Channel Layout") {
		t.Fatalf("warning should still be shown, got %q", out.String())
	}

	fake = &fakeTranscoder{writeOutput: true, diagnostics: "fatal", err: errors.New("exit status 1")}
	_, src2 := newSource(t, "other.m4a")
	outcome, err = New(fake, audiofmt.ToFLAC, WithPolicy(PolicyExitCode)).Convert(context.Background(), src2)
	if outcome != Failed || err == nil {
		t.Fatalf("process error must fail under lenient policy, got %v, %v", outcome, err)
	}
}

func TestConvertCanceledRemovesTemp(t *testing.T) {
	dir, src := newSource(t, "track.m4a")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &fakeTranscoder{writeOutput: true, err: errors.New("signal: killed"), cancel: cancel}

	outcome, err := New(fake, audiofmt.ToFLAC).Convert(ctx, src)
	if outcome != Canceled || !errors.Is(err, context.Canceled) {
		t.Fatalf("Convert = %v, %v", outcome, err)
	}
	if testsupport.HasSuffixFile(t, dir, TempSuffix) {
		t.Fatal("temp file left behind after cancellation")
	}

	outcome, err = New(fake, audiofmt.ToFLAC).Convert(ctx, src)
	if outcome != Canceled || len(fake.calls) != 1 {
		t.Fatalf("canceled context must not start a conversion: %v, %v, calls=%d", outcome, err, len(fake.calls))
	}
}

func TestConvertWithStubFFmpeg(t *testing.T) {
	binary, logPath := testsupport.StubFFmpeg(t, testsupport.StubOptions{FailOn: "bad", ExitCode: 1})
	dir := t.TempDir()
	good := filepath.Join(dir, `quote "and" space.m4a`)
	bad := filepath.Join(dir, "bad.m4a")
	testsupport.WriteFile(t, good, 8)
	testsupport.WriteFile(t, bad, 8)

	c := New(transcode.NewFFmpeg(binary, nil), audiofmt.ToFLAC)
	if outcome, err := c.Convert(context.Background(), good); outcome != Converted || err != nil {
		t.Fatalf("good: %v, %v", outcome, err)
	}
	if outcome, err := c.Convert(context.Background(), bad); outcome != Failed || !errors.Is(err, ErrDiagnosticOutput) {
		t.Fatalf("bad: %v, %v", outcome, err)
	}

	want := []string{"bad.m4a", `quote "and" space.flac`, `quote "and" space.m4a`}
	if got := testsupport.Tree(t, dir); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("tree = %v, want %v", got, want)
	}
	if calls := testsupport.Invocations(t, logPath); len(calls) != 2 {
		t.Fatalf("expected 2 invocations, got %v", calls)
	}
}

func TestOutcomeString(t *testing.T) {
	for outcome, want := range map[Outcome]string{Converted: "converted", Skipped: "skipped", Failed: "failed", Canceled: "canceled", Outcome(9): "unknown"} {
		if outcome.String() != want {
			t.Fatalf("%d.String() = %q", outcome, outcome.String())
		}
	}
}
