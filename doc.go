// Package sidecar supervises a backend process owned by a desktop host
// application.
//
// The host creates one Supervisor, calls Start once its environment is ready,
// and wires the window-destroyed and app-exit events to the hooks returned by
// Hooks. The supervisor finds the backend artifact, picks a runtime to run it,
// launches it with output redirected to a diagnostic log, and terminates it
// exactly once no matter how many shutdown events fire.
//
// No failure in the supervisor is fatal to the host. A missing artifact, a
// missing runtime or an unwritable log directory degrade to "no backend" or
// "no log record", and Start only reports them for diagnostics.
//
// # Basic Usage
//
//	import "github.com/giantswarm/sidecar"
//
//	sup := sidecar.NewSupervisor(
//	    sidecar.WithResourceDir(resourceDir),
//	    sidecar.WithLogDir(logDir),
//	)
//	hooks := sup.Hooks()
//
//	hooks.OnStartup(ctx)                // after the host environment is ready
//	window.OnDestroyed(hooks.OnWindowDestroyed)
//	app.OnExit(hooks.OnAppExit)
//
// # Artifact Discovery
//
// The development artifact at <project root>/backend/build/libs/backend-0.1.0.jar
// wins over the packaged <resource dir>/backend.jar so that developers never run
// a stale packaged build. See WithProjectRoot, WithDevArtifactPath,
// WithResourceDir and WithPackagedArtifactName.
//
// Unless WithProjectRoot pins it, the project root is found by walking up
// from the working directory and then from the executable's directory. The
// first ancestor holding the built artifact wins; otherwise the nearest one
// holding go.mod or .git is used. This works for "go run", for binaries in
// bin/ and for platform bundle layouts alike.
//
// # Build Modes
//
// Binaries built with -tags release default to BuildRelease: the bundled
// runtime under <resource dir>/jre/bin is preferred and, on Windows, the
// backend gets no console window. Other builds default to BuildDevelopment and
// always run the system "java" from PATH. WithBuildMode overrides the default.
//
// # Readiness
//
// Start never waits for the backend. Hosts that need the backend call
// WaitReady, which sends GET http://127.0.0.1:8080/api/health every second,
// up to 30 times. The backend is ready on a 2xx answer whose "dataStatus" is
// not "loading". A "dataStatus" of "error" fails at once with
// ErrBackendUnhealthy, and a backend that dies first fails with
// ErrProcessExited. WithTCPReadiness drops the HTTP check in favor of a bare
// TCP connect.
package sidecar
