package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNetworkFilesystem is returned by OpenSQLite when the state database
// would live on a network mount.
var ErrNetworkFilesystem = errors.New("state database must be on a local filesystem")

// remoteFilesystems are mount types where SQLite file locking is unreliable.
var remoteFilesystems = []string{"afpfs", "cifs", "nfs", "smbfs", "smb2", "webdav"}

// filesystemType is replaced in tests.
var filesystemType = detectFilesystemType

// ensureLocalDisk inspects the closest existing ancestor of path, since the
// database file itself may not exist yet.
func ensureLocalDisk(path string) error {
	dir, err := existingAncestor(path)
	if err != nil {
		return fmt.Errorf("resolve database path %q: %w", path, err)
	}

	fsType, err := filesystemType(dir)
	if err != nil {
		return fmt.Errorf("detect filesystem for %q: %w", dir, err)
	}
	if isRemote(fsType) {
		return fmt.Errorf("%w: %q is on %s; point state.path (or TASKDESK_STATE_PATH) at local disk",
			ErrNetworkFilesystem, path, fsType)
	}
	return nil
}

func existingAncestor(path string) (string, error) {
	candidate, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", err
		}
		parent := filepath.Dir(candidate)
		if parent == candidate {
			return "", fmt.Errorf("no existing ancestor")
		}
		candidate = parent
	}
}

func isRemote(fsType string) bool {
	fsType = strings.ToLower(strings.TrimSpace(fsType))
	for _, r := range remoteFilesystems {
		if fsType == r {
			return true
		}
	}
	return false
}
