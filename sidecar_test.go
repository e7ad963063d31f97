package sidecar_test

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/giantswarm/sidecar"
)

// emptyLayout returns options pointing every lookup at empty temp dirs.
func emptyLayout(t *testing.T) []sidecar.Option {
	t.Helper()
	return []sidecar.Option{
		sidecar.WithProjectRoot(t.TempDir()),
		sidecar.WithResourceDir(t.TempDir()),
		sidecar.WithLogDir(filepath.Join(t.TempDir(), "logs")),
	}
}

func TestSupervisor_NoArtifactIsNotFatal(t *testing.T) {
	t.Parallel()

	sup := sidecar.NewSupervisor(emptyLayout(t)...)
	hooks := sup.Hooks()

	hooks.OnStartup(context.Background())
	if _, ok := sup.Pid(); ok {
		t.Fatal("no backend should run without an artifact")
	}

	// Shutdown after a startup that found nothing is a no-op.
	hooks.OnWindowDestroyed()
	hooks.OnAppExit()
	sup.Terminate()

	if err := sup.WaitReady(context.Background()); !errors.Is(err, sidecar.ErrNotStarted) {
		t.Errorf("WaitReady() error = %v, want ErrNotStarted", err)
	}
}

func TestSupervisor_StartReportsMissingArtifact(t *testing.T) {
	t.Parallel()

	sup := sidecar.NewSupervisor(emptyLayout(t)...)
	if err := sup.Start(context.Background()); !errors.Is(err, sidecar.ErrArtifactNotFound) {
		t.Fatalf("Start() error = %v, want ErrArtifactNotFound", err)
	}
	if err := sup.Start(context.Background()); !errors.Is(err, sidecar.ErrAlreadyStarted) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestSupervisor_TerminateBeforeStart(t *testing.T) {
	t.Parallel()

	sup := sidecar.NewSupervisor(emptyLayout(t)...)
	sup.Terminate()
	sup.Terminate()

	if err := sup.Start(context.Background()); !errors.Is(err, sidecar.ErrShuttingDown) {
		t.Fatalf("Start() error = %v, want ErrShuttingDown", err)
	}
}

func TestSupervisor_ConcurrentHooksWithoutBackend(t *testing.T) {
	t.Parallel()

	sup := sidecar.NewSupervisor(emptyLayout(t)...)
	hooks := sup.Hooks()

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(hooks.OnWindowDestroyed)
		wg.Go(hooks.OnAppExit)
		wg.Go(sup.Terminate)
	}
	wg.Wait()
}

func TestSupervisor_Resolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	res := t.TempDir()
	logs := filepath.Join(t.TempDir(), "logs")

	sup := sidecar.NewSupervisor(
		sidecar.WithBuildMode(sidecar.BuildDevelopment),
		sidecar.WithProjectRoot(root),
		sidecar.WithResourceDir(res),
		sidecar.WithLogDir(logs),
	)
	r := sup.Resolve()

	if r.Runtime != sidecar.DefaultRuntimeCommand {
		t.Errorf("Runtime = %q, want %q in development mode", r.Runtime, sidecar.DefaultRuntimeCommand)
	}
	if r.ArtifactFound {
		t.Errorf("ArtifactFound = true for empty layout, artifact %q", r.Artifact)
	}
	wantDev := filepath.Join(root, "backend", "build", "libs", "backend-0.1.0.jar")
	if r.DevArtifactPath != wantDev {
		t.Errorf("DevArtifactPath = %q, want %q", r.DevArtifactPath, wantDev)
	}
	if r.PackagedPath != filepath.Join(res, "backend.jar") {
		t.Errorf("PackagedPath = %q", r.PackagedPath)
	}
	if r.LogPath != filepath.Join(logs, "backend.log") {
		t.Errorf("LogPath = %q", r.LogPath)
	}
}

func TestSupervisor_DiscoversProjectRootAboveStartDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dev := filepath.Join(root, "backend", "build", "libs", "backend-0.1.0.jar")
	if err := os.MkdirAll(filepath.Dir(dev), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dev, []byte("PK"), 0o600); err != nil {
		t.Fatal(err)
	}
	// A host binary built deep inside the frontend tree.
	start := filepath.Join(root, "frontend", "src-host", "target", "x86_64-unknown-linux-gnu", "debug")
	if err := os.MkdirAll(start, 0o755); err != nil {
		t.Fatal(err)
	}

	sup := sidecar.NewSupervisor(
		sidecar.WithProjectSearchDirs([]string{t.TempDir(), start}),
		sidecar.WithResourceDir(start),
		sidecar.WithoutDiagnostics(),
	)
	r := sup.Resolve()

	if r.ProjectRoot != root {
		t.Errorf("ProjectRoot = %q, want %q", r.ProjectRoot, root)
	}
	if !r.ArtifactFound || r.Artifact != dev {
		t.Errorf("Artifact = (%q, %v), want development artifact %q", r.Artifact, r.ArtifactFound, dev)
	}
}

// The test binary runs from a temporary build directory, like "go run", with
// the package directory as working directory. The default search must find
// the module root from there.
func TestSupervisor_DefaultProjectRootFromWorkingDir(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	sup := sidecar.NewSupervisor(sidecar.WithoutDiagnostics())
	r := sup.Resolve()

	if r.ProjectRoot != wd {
		t.Errorf("ProjectRoot = %q, want the module root %q", r.ProjectRoot, wd)
	}
	wantDev := filepath.Join(wd, "backend", "build", "libs", "backend-0.1.0.jar")
	if r.DevArtifactPath != wantDev {
		t.Errorf("DevArtifactPath = %q, want %q", r.DevArtifactPath, wantDev)
	}
}

// freePort returns a loopback port with nothing listening on it.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
