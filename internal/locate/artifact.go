package locate

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/giantswarm/sidecar/internal/fileutil"
)

// DefaultProjectMarkers identify a project root when no development artifact
// has been built yet.
var DefaultProjectMarkers = []string{"go.mod", ".git"}

// ArtifactLocator finds the backend artifact on disk.
//
// Candidate paths are absolute. The packaged path is fixed at construction;
// the development path is fixed too when a project root is configured, and
// otherwise discovered on first use by searching upward from SearchDirs.
// An empty path is never considered present.
type ArtifactLocator struct {
	cfg          ArtifactConfig
	packagedPath string
	log          *slog.Logger

	devOnce sync.Once
	root    string
	devPath string
}

// ArtifactConfig describes the two layouts an artifact can be found in.
type ArtifactConfig struct {
	// ProjectRoot is the development tree root. Empty means discover it
	// from SearchDirs.
	ProjectRoot string
	// SearchDirs are the starting points for project root discovery, for
	// example the working directory and the host executable's directory.
	SearchDirs []string
	// Markers identify a project root when no built artifact is found above
	// any search dir. Nil uses DefaultProjectMarkers.
	Markers []string
	// DevSubpath is the build output relative to the project root, e.g.
	// "backend/build/libs/backend-0.1.0.jar".
	DevSubpath string
	// ResourceDir is the host's bundled resources directory. Empty disables
	// the packaged lookup.
	ResourceDir string
	// PackagedName is the artifact file name inside ResourceDir.
	PackagedName string
	// Logger (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// NewArtifactLocator builds an ArtifactLocator from cfg. Relative directories
// are made absolute against the working directory.
func NewArtifactLocator(cfg ArtifactConfig) *ArtifactLocator {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Markers == nil {
		cfg.Markers = DefaultProjectMarkers
	}
	cfg.ProjectRoot = absDir(cfg.ProjectRoot)
	cfg.ResourceDir = absDir(cfg.ResourceDir)
	return &ArtifactLocator{
		cfg:          cfg,
		packagedPath: joinIfSet(cfg.ResourceDir, cfg.PackagedName),
		log:          log,
	}
}

// ProjectRoot returns the configured or discovered project root, or "" if
// none was found.
func (l *ArtifactLocator) ProjectRoot() string {
	l.devOnce.Do(l.resolveDev)
	return l.root
}

// DevPath returns the development-layout candidate, or "" if disabled.
func (l *ArtifactLocator) DevPath() string {
	l.devOnce.Do(l.resolveDev)
	return l.devPath
}

// PackagedPath returns the packaged-layout candidate, or "" if disabled.
func (l *ArtifactLocator) PackagedPath() string { return l.packagedPath }

// Locate returns the first candidate that exists: the development path,
// then the packaged path. ok is false when neither exists, which is a normal
// outcome for a host running without a backend.
func (l *ArtifactLocator) Locate() (path string, ok bool) {
	if dev := l.DevPath(); fileutil.IsFile(dev) {
		l.log.Debug("using development artifact", "path", dev)
		return dev, true
	}
	if fileutil.IsFile(l.packagedPath) {
		l.log.Debug("using packaged artifact", "path", l.packagedPath)
		return l.packagedPath, true
	}
	return "", false
}

func (l *ArtifactLocator) resolveDev() {
	l.root = l.cfg.ProjectRoot
	if l.root == "" && l.cfg.DevSubpath != "" {
		l.root = FindProjectRoot(l.cfg.SearchDirs, l.cfg.DevSubpath, l.cfg.Markers)
		if l.root != "" {
			l.log.Debug("discovered project root", "path", l.root)
		}
	}
	l.devPath = joinIfSet(l.root, l.cfg.DevSubpath)
}

// FindProjectRoot searches upward from each of starts in turn. The first
// directory holding a built devSubpath wins. Failing that, the nearest
// directory holding one of markers is returned, so the development path can
// still be reported before the backend is built. Returns "" if neither is
// found.
func FindProjectRoot(starts []string, devSubpath string, markers []string) string {
	dirs := make([]string, 0, len(starts))
	for _, s := range starts {
		if s = absDir(s); s != "" {
			dirs = append(dirs, s)
		}
	}

	for _, start := range dirs {
		if root, ok := fileutil.FindUp(start, func(dir string) bool {
			return fileutil.IsFile(joinIfSet(dir, devSubpath))
		}); ok {
			return root
		}
	}
	for _, start := range dirs {
		if root, ok := fileutil.FindUp(start, func(dir string) bool {
			for _, m := range markers {
				if fileutil.Exists(filepath.Join(dir, m)) {
					return true
				}
			}
			return false
		}); ok {
			return root
		}
	}
	return ""
}

func absDir(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func joinIfSet(dir, name string) string {
	if dir == "" || name == "" {
		return ""
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}
