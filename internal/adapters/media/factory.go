// Package media contains the media store drivers: local filesystem for
// offline field use, S3 for shared deployments, and an in-memory driver
// for tests.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// Drivers selectable in configuration.
const (
	DriverFS     = "fs"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Options holds construction parameters for a media store driver.
type Options struct {
	Driver string

	// fs driver
	Root string

	// s3 driver
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO-style endpoints
	PathStyle bool

	// Prefix is the operator-supplied upload target (folder or object
	// key prefix). Opaque to the core.
	Prefix string
}

// Open selects and constructs a media store driver from Options.
func Open(ctx context.Context, opts Options) (secondary.MediaStore, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFS
	}
	switch driver {
	case DriverFS:
		return NewFS(opts.Root, opts.Prefix)
	case DriverS3:
		return NewS3(ctx, opts)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown media driver %s", driver)
	}
}

// sanitizeName flattens a filename into a single safe path element.
func sanitizeName(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", fmt.Errorf("empty filename")
	}
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name, nil
}
