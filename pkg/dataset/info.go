package dataset

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Info summarizes a loaded dataset for listings.
type Info struct {
	Name         string  `json:"name" msgpack:"name"`
	Source       string  `json:"source" msgpack:"source"`
	SizeBytes    int64   `json:"size_bytes" msgpack:"size_bytes"`
	Size         string  `json:"size" msgpack:"size"`
	TimestampRaw float64 `json:"timestamp_raw" msgpack:"timestamp_raw"`
	Timestamp    string  `json:"timestamp" msgpack:"timestamp"`
	ItemCount    int     `json:"item_count" msgpack:"item_count"`
}

// Describe builds the Info of ds, loaded from the file at path.
func Describe(path string, ds *Dataset) (Info, error) {
	status, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("cannot status data %s: %w", path, err)
	}
	mtime := status.ModTime()
	return Info{
		Name:         ds.Name(),
		Source:       path,
		SizeBytes:    status.Size(),
		Size:         humanize.Bytes(uint64(status.Size())),
		TimestampRaw: float64(mtime.UnixNano()) / float64(time.Second),
		Timestamp:    mtime.UTC().Format(time.RFC3339),
		ItemCount:    ds.Len(),
	}, nil
}
