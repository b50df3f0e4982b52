package domain

import "path/filepath"

const (
	// StateDirName is the name of the per-project state directory.
	StateDirName = ".specscope"

	// ResultsDirName is the name of the file-backed result store directory.
	ResultsDirName = "results"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "specscope.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultResultStorePath returns the default path of the file-backed result store.
// It joins .specscope and results.
func DefaultResultStorePath() string {
	return filepath.Join(StateDirName, ResultsDirName)
}
