package process

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSink_CreatesDirectoryAndAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "backend.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink() error: %v", err)
	}
	if sink.Path() != path {
		t.Errorf("Path() = %q, want %q", sink.Path(), path)
	}
	if _, err := sink.file.WriteString("this run\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	sink.Close()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "previous run\nthis run\n"; string(got) != want {
		t.Errorf("sink contents = %q, want %q", got, want)
	}
}

func TestOpenSink_NewNestedDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "backend.log")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink() error: %v", err)
	}
	defer sink.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sink file not created: %v", err)
	}
}

func TestOpenSink_Unavailable(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenSink(filepath.Join(blocker, "backend.log")); err == nil {
		t.Fatal("expected error when the log directory cannot be created")
	}
}

func TestDiagnosticSink_CloseNilAndTwice(t *testing.T) {
	t.Parallel()

	var nilSink *DiagnosticSink
	nilSink.Close()
	if nilSink.Path() != "" {
		t.Error("Path() on nil sink should be empty")
	}

	sink, err := OpenSink(filepath.Join(t.TempDir(), "backend.log"))
	if err != nil {
		t.Fatalf("OpenSink() error: %v", err)
	}
	sink.Close()
	sink.Close()
}
