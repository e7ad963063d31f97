package process

import (
	"fmt"
	"os"

	"github.com/giantswarm/sidecar/internal/fileutil"
)

// DiagnosticSink is the append-only file that receives the child's stdout and
// stderr. Both streams share the one file descriptor so interleaved output
// keeps a single chronological record. The sink is never truncated or rotated.
type DiagnosticSink struct {
	file *os.File
	path string
}

// OpenSink opens path for appending, creating the file and its parent
// directory if needed.
func OpenSink(path string) (*DiagnosticSink, error) {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, fmt.Errorf("open diagnostic sink: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostic sink: %w", err)
	}
	return &DiagnosticSink{file: f, path: path}, nil
}

// Path returns the sink file path, or "" for a nil sink.
func (s *DiagnosticSink) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the parent's handle on the file and nils it to prevent a
// double close. The child keeps its own inherited descriptor. Safe on a nil sink.
func (s *DiagnosticSink) Close() {
	if s == nil || s.file == nil {
		return
	}
	_ = s.file.Close()
	s.file = nil
}
