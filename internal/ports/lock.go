package ports

import "github.com/apm-run/apm/internal/types"

// LockStorePort persists and reloads a project's lock file,
// apm_modules/.apm-lock.
type LockStorePort interface {
	Load(projectRoot string) (types.LockFile, error)
	Save(projectRoot string, lock types.LockFile) error
}
