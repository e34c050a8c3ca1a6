package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSProvider writes artifacts under a base directory on the local
// filesystem, creating parent directories as needed.
type FSProvider struct {
	baseDir string
}

// NewFSProvider creates a filesystem-backed provider rooted at baseDir.
func NewFSProvider(baseDir string) (*FSProvider, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &FSProvider{baseDir: baseDir}, nil
}

// BaseDir returns the provider's root directory.
func (p *FSProvider) BaseDir() string {
	return p.baseDir
}

// Save writes data to baseDir/objectName. Object names resolving outside
// the base directory are rejected.
func (p *FSProvider) Save(_ context.Context, objectName string, data []byte) error {
	if strings.TrimSpace(objectName) == "" {
		return fmt.Errorf("object name is required")
	}
	fullPath := filepath.Join(p.baseDir, filepath.FromSlash(objectName))

	cleanBase := filepath.Clean(p.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("object name escapes base directory: %q", objectName)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
