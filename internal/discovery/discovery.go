package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are searched when a directory is given without a pattern.
var DefaultPatterns = []string{
	"**/*.yaml",
	"**/*.yml",
	"**/*.json",
}

// FileFormat is the encoding of a sample file.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatYAML
	FormatJSON
)

// String returns the human-readable name of the format.
func (ff FileFormat) String() string {
	switch ff {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat determines the format from the file extension.
func DetectFormat(path string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case "":
		return FormatUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. cqe reads .yaml, .yml and .json samples only", filepath.Base(path))
	default:
		return FormatUnknown, fmt.Errorf(
			"unsupported file type: %s. cqe reads .yaml, .yml and .json samples only", ext)
	}
}

// ValidateFilePath checks that path names a readable, non-empty text file.
// Symlinks are resolved. The absolute path is returned.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Null bytes in the first 512 bytes mark a binary file
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File is a discovered sample file
type File struct {
	Path    string
	RelPath string
	Size    int64
	Format  FileFormat
}

// FileDiscovery finds sample files below a root directory
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
	}
}

// Resolve expands command-line arguments into sample files. Each argument
// is an existing file, a directory (searched with DefaultPatterns) or a glob
// relative to the root. Results are sorted by path and de-duplicated.
func (fd *FileDiscovery) Resolve(args []string) ([]File, error) {
	var files []File
	for _, arg := range args {
		found, err := fd.resolveArg(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	files = slices.CompactFunc(files, func(a, b File) bool { return a.Path == b.Path })

	if len(files) == 0 {
		return nil, fmt.Errorf("no sample files matched %s", strings.Join(args, ", "))
	}
	return files, nil
}

func (fd *FileDiscovery) resolveArg(arg string) ([]File, error) {
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(fd.rootPath, arg)
	}

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			files, err := NewFileDiscovery(path, fd.followSymlinks).DiscoverFiles(DefaultPatterns)
			for i := range files {
				files[i].RelPath = fd.relPath(files[i].Path)
			}
			return files, err
		}
		abs, err := ValidateFilePath(path)
		if err != nil {
			return nil, err
		}
		format, err := DetectFormat(abs)
		if err != nil {
			return nil, err
		}
		return []File{{Path: abs, RelPath: fd.relPath(abs), Size: info.Size(), Format: format}}, nil
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
		return nil, fmt.Errorf("invalid pattern %q", arg)
	}
	if filepath.IsAbs(arg) {
		return fd.discoverAbsolute(arg)
	}
	return fd.DiscoverFiles([]string{filepath.ToSlash(arg)})
}

// DiscoverFiles finds files under the root matching the given glob patterns.
// Files that are not YAML or JSON are skipped.
func (fd *FileDiscovery) DiscoverFiles(patterns []string) ([]File, error) {
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if f, ok := fd.processMatch(filepath.Join(fd.rootPath, filepath.FromSlash(match))); ok {
				files = append(files, f)
			}
		}
	}

	return files, nil
}

func (fd *FileDiscovery) discoverAbsolute(pattern string) ([]File, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
	}
	var files []File
	for _, match := range matches {
		if f, ok := fd.processMatch(match); ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(fullPath string) (File, bool) {
	info, err := os.Lstat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		fullPath = resolved
		info = resolvedInfo
	}

	format, err := DetectFormat(fullPath)
	if err != nil || info.Size() == 0 {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: fd.relPath(fullPath),
		Size:    info.Size(),
		Format:  format,
	}, true
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil || info.IsDir() {
		return "", nil, false
	}

	return realPath, info, true
}

func (fd *FileDiscovery) relPath(path string) string {
	rel, err := filepath.Rel(fd.rootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
