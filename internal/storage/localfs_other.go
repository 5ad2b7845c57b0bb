//go:build !darwin && !linux

package storage

// Unknown types are treated as local.
func detectFilesystemType(string) (string, error) {
	return "unknown", nil
}
