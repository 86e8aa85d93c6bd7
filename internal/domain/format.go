package domain

import (
	"fmt"
	"strings"
)

// Format is the compression codec applied to the tar stream.
type Format string

const (
	Gzip  Format = "gz"
	Bzip2 Format = "bz2"
	Xz    Format = "xz"
	Zstd  Format = "zst"
	Lz4   Format = "lz4"
)

// DefaultFormat is used when no archive type is configured.
const DefaultFormat = Bzip2

var formatAliases = map[string]Format{
	"gz":    Gzip,
	"gzip":  Gzip,
	"bz2":   Bzip2,
	"bzip2": Bzip2,
	"xz":    Xz,
	"zst":   Zstd,
	"zstd":  Zstd,
	"lz4":   Lz4,
}

// ParseFormat accepts either the file extension or the codec name.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("invalid archive type %q, must be one of gz, bz2, xz, zst, lz4", s)
}

// Extension is the suffix appended after ".tar.".
func (f Format) Extension() string {
	return string(f)
}

func (f Format) String() string {
	return string(f)
}
