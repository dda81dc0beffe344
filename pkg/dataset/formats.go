package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension is not a known dataset format.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// FileFormat represents the supported dataset file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // JSON array of strings
	FormatYAML               // YAML sequence of strings
	FormatText               // one item per line
)

// FormatInfo contains metadata about a dataset file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON string array",
		Extensions:  []string{".json"},
		MinSize:     2, // "[]"
	},
	FormatYAML: {
		Format:      FormatYAML,
		Description: "YAML string sequence",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     0,
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain text, one item per line",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks the format of a dataset file from its extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// IsDatasetFile reports whether filename has a supported dataset extension.
func IsDatasetFile(filename string) bool {
	_, err := DetectFileFormat(filename)
	return err == nil
}

// ListSupportedExtensions returns every extension a dataset file may carry.
func ListSupportedExtensions() []string {
	var exts []string
	for _, format := range []FileFormat{FormatJSON, FormatYAML, FormatText} {
		exts = append(exts, supportedFormats[format].Extensions...)
	}
	return exts
}

// NameFromPath derives a dataset name from its file name: data/countries.json -> countries
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads the dataset stored at path. The dataset name is the file name
// without its extension.
func Load(path string) (*Dataset, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source %s: %w", path, err)
	}
	if minSize := supportedFormats[format].MinSize; fileInfo.Size() < minSize {
		return nil, fmt.Errorf("data source %s is too small (%d bytes) for %s", path, fileInfo.Size(), format)
	}

	var items []string
	switch format {
	case FormatJSON:
		items, err = readJSON(path)
	case FormatYAML:
		items, err = readYAML(path)
	case FormatText:
		items, err = readText(path)
	}
	if err != nil {
		return nil, err
	}
	return &Dataset{name: NameFromPath(path), items: items}, nil
}

func readJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source %s: %w", path, err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("data source %s is invalid: %w", path, err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func readYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source %s: %w", path, err)
	}
	var items []string
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("data source %s is invalid: %w", path, err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// readText keeps every non-blank line, in file order.
func readText(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source %s: %w", path, err)
	}
	defer file.Close()

	items := []string{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data source %s: %w", path, err)
	}
	return items, nil
}
