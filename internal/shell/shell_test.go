package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/config"
	"github.com/michaelscutari/dugout/internal/platform"
	"github.com/michaelscutari/dugout/internal/report"
	"github.com/michaelscutari/dugout/internal/scan"
)

type fakeSpace struct{}

func (fakeSpace) Space(_ context.Context, drive string) (platform.Space, error) {
	return platform.NewSpace(drive, 2048, 1024), nil
}

func (fakeSpace) Drives(context.Context) ([]string, error) {
	return []string{"/", "/data"}, nil
}

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "big.iso"), make([]byte, 4000), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "hollow"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetDefault()
	cfg.Queries.MinTypeSize = ""
	cfg.Report.Dir = filepath.Join(t.TempDir(), "outputs")
	opts, err := analyzer.ScanOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	opts.Log = nil

	e, err := analyzer.New(cfg, analyzer.WithSpaceProvider(fakeSpace{}), analyzer.WithWalker(scan.NewWalker(opts)))
	if err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	s := New(e, strings.NewReader(input), &out, &errOut, report.FormatTable)
	s.SetPrompt("> ")
	return s, &out, &errOut, root
}

func TestBuiltins(t *testing.T) {
	s, out, _, _ := newTestShell(t, "")
	ctx := context.Background()

	s.Execute(ctx, "echo hello   world")
	s.Execute(ctx, "type largest-files")
	s.Execute(ctx, "type nope")
	s.Execute(ctx, "frobnicate")

	want := "hello world\nlargest-files is a shell builtin\nnope: not found\nfrobnicate: not found\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", out.String(), want)
	}
}

func TestCommandNameIsCaseInsensitive(t *testing.T) {
	s, out, _, _ := newTestShell(t, "")

	s.Execute(context.Background(), "ECHO MiXeD")
	if out.String() != "MiXeD\n" {
		t.Fatalf("arguments must keep their case, got %q", out.String())
	}
}

func TestExitCodes(t *testing.T) {
	s, _, errOut, _ := newTestShell(t, "")
	ctx := context.Background()

	if code, exit := s.Execute(ctx, "exit"); !exit || code != 0 {
		t.Fatalf("exit = (%d, %v)", code, exit)
	}
	if code, exit := s.Execute(ctx, "exit 3"); !exit || code != 3 {
		t.Fatalf("exit 3 = (%d, %v)", code, exit)
	}
	if _, exit := s.Execute(ctx, "exit three"); exit {
		t.Fatalf("non-numeric exit code must not exit")
	}
	if !strings.Contains(errOut.String(), "numeric argument required") {
		t.Fatalf("expected error, got %q", errOut.String())
	}
}

func TestMissingDrivePrintsUsage(t *testing.T) {
	s, out, errOut, _ := newTestShell(t, "")

	s.Execute(context.Background(), "largest-files")
	if !strings.Contains(errOut.String(), "usage: largest-files <drive>") {
		t.Fatalf("expected usage, got %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHelp(t *testing.T) {
	s, out, _, _ := newTestShell(t, "")
	ctx := context.Background()

	s.Execute(ctx, "help")
	for _, name := range []string{"largest-folders", "empty-folders <drive> [-save] [-delete]", "full-drive-analysis"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("help missing %q", name)
		}
	}

	out.Reset()
	s.Execute(ctx, "help bogus")
	if out.String() != "Command not found: bogus\n" {
		t.Fatalf("unexpected help output %q", out.String())
	}
}

func TestDriveQueries(t *testing.T) {
	s, out, errOut, root := newTestShell(t, "")
	ctx := context.Background()

	s.Execute(ctx, "largest-files "+root)
	if !strings.Contains(errOut.String(), "No cache found, scanning..") {
		t.Fatalf("expected scanning notice, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "--- Largest Files ---") || !strings.Contains(out.String(), "big.iso") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	errOut.Reset()
	s.Execute(ctx, "file-type-dist "+root)
	if !strings.Contains(errOut.String(), "Cached scan found!") {
		t.Fatalf("expected cached notice, got %q", errOut.String())
	}

	out.Reset()
	s.Execute(ctx, "cached")
	if !strings.Contains(out.String(), root) {
		t.Fatalf("cached drives missing %s:\n%s", root, out.String())
	}

	out.Reset()
	s.Execute(ctx, "drive-space "+root)
	if !strings.Contains(out.String(), "--- Drive Space Overview ---") {
		t.Fatalf("unexpected drive space output:\n%s", out.String())
	}
}

func TestEmptyFolders(t *testing.T) {
	s, out, errOut, root := newTestShell(t, "")
	ctx := context.Background()

	s.Execute(ctx, "empty-folders "+root+" -delete")
	if out.String() != "Deletion functionality for empty folders is not yet implemented.\n" {
		t.Fatalf("unexpected delete output %q", out.String())
	}

	out.Reset()
	s.Execute(ctx, "empty-folders "+root+" -save")
	if !strings.Contains(out.String(), "Found 1 empty folders.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "Saved empty folders report to:") {
		t.Fatalf("expected saved notice, got %q", errOut.String())
	}
}

func TestEmptyFoldersDeleteAnywhere(t *testing.T) {
	s, out, errOut, root := newTestShell(t, "")
	ctx := context.Background()

	const msg = "Deletion functionality for empty folders is not yet implemented.\n"
	for _, line := range []string{"empty-folders -delete", "empty-folders " + root + " -save -delete"} {
		out.Reset()
		s.Execute(ctx, line)
		if out.String() != msg {
			t.Fatalf("%q printed %q", line, out.String())
		}
	}
	if errOut.Len() != 0 {
		t.Fatalf("delete must not scan or fail, stderr %q", errOut.String())
	}
	if len(s.engine.CachedDrives()) != 0 {
		t.Fatalf("delete started a walk")
	}
}

func TestQueryErrorsDoNotStopShell(t *testing.T) {
	s, _, errOut, root := newTestShell(t, "")

	_, exit := s.Execute(context.Background(), "largest-files "+filepath.Join(root, "missing"))
	if exit {
		t.Fatalf("a failed query must not end the shell")
	}
	if !strings.Contains(errOut.String(), "Error: ") {
		t.Fatalf("expected error line, got %q", errOut.String())
	}
}

func TestRunReadsUntilExit(t *testing.T) {
	s, out, _, _ := newTestShell(t, "echo one\n\nexit 7\necho two\n")

	if code := s.Run(context.Background()); code != 7 {
		t.Fatalf("Run = %d, want 7", code)
	}
	if !strings.Contains(out.String(), "one") || strings.Contains(out.String(), "two") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunStopsAtEOF(t *testing.T) {
	s, _, _, _ := newTestShell(t, "echo only\n")

	if code := s.Run(context.Background()); code != 0 {
		t.Fatalf("Run = %d at end of input", code)
	}
}
