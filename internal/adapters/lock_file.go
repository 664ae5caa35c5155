package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/types"
)

const lockFileName = ".apm-lock"

type LockFileAdapter struct{}

func NewLockFileAdapter() LockFileAdapter {
	return LockFileAdapter{}
}

func (a LockFileAdapter) Load(projectRoot string) (types.LockFile, error) {
	path := lockFilePath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.LockFile{Packages: map[string]types.LockEntry{}}, nil
		}
		return types.LockFile{}, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to read " + path).WithCause(err)
	}
	var lock types.LockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return types.LockFile{}, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to parse " + path).WithCause(err)
	}
	if lock.Packages == nil {
		lock.Packages = map[string]types.LockEntry{}
	}
	return lock, nil
}

// Save writes apm_modules/.apm-lock as pretty-printed JSON with sorted
// keys (spec.md §6). encoding/json already sorts map[string]T keys.
func (a LockFileAdapter) Save(projectRoot string, lock types.LockFile) error {
	if lock.Packages == nil {
		lock.Packages = map[string]types.LockEntry{}
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to encode lock file").WithCause(err)
	}
	data = append(data, '\n')

	path := lockFilePath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to create apm_modules directory").WithCause(err)
	}
	return writeFileAtomic(path, data, 0o644)
}

func lockFilePath(projectRoot string) string {
	return filepath.Join(projectRoot, "apm_modules", lockFileName)
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to create temp file for " + path).WithCause(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to write " + tmpPath).WithCause(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to fsync " + tmpPath).WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to close " + tmpPath).WithCause(err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to chmod " + tmpPath).WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to rename into place: " + path).WithCause(err)
	}
	return nil
}

var _ ports.LockStorePort = LockFileAdapter{}
