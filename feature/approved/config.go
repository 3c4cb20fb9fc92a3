package approved

import (
	"fmt"

	"kf2-manager/core/storage"
)

// Source kinds accepted by Config.Source.
const (
	SourceFile    = "file"
	SourceStorage = "storage"
	SourceStatic  = "static"
)

// Config selects where the approved list comes from.
type Config struct {
	// Source is one of "file", "storage" or "static".
	Source string `mapstructure:"source" default:"file"`
	// Path is the local CSV file, used by the file source.
	Path string `mapstructure:"path" default:"approved.csv"`
	// Object is the object name inside the storage bucket.
	Object string `mapstructure:"object" default:"approved.csv"`
	// Column is the 1-based CSV column holding workshop IDs.
	Column int `mapstructure:"column" default:"1"`
	// Items is the fixed list used by the static source.
	Items []uint64 `mapstructure:"items"`
}

// New builds the Source described by cfg. client and bucket are only used
// by the storage source; client may be nil otherwise.
func New(cfg Config, client storage.Client, bucket string) (Source, error) {
	switch cfg.Source {
	case SourceFile, "":
		return FileSource{Path: cfg.Path, Column: cfg.Column}, nil
	case SourceStorage:
		if client == nil {
			return nil, fmt.Errorf("approved source %q requires object storage", cfg.Source)
		}
		return StorageSource{Client: client, Bucket: bucket, Object: cfg.Object, Column: cfg.Column}, nil
	case SourceStatic:
		return Static(cfg.Items), nil
	default:
		return nil, fmt.Errorf("unknown approved source %q", cfg.Source)
	}
}
