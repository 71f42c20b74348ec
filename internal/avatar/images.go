package avatar

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mattersend/internal/domain"
)

// imageExtensions lists the file types picked up by ScanImages.
var imageExtensions = map[string]bool{
	".png": true,
	".gif": true,
	".jpg": true,
}

var (
	extPattern   = regexp.MustCompile(`\.[^.\s]{3,4}$`)
	labelPattern = regexp.MustCompile(`^(.+) \(([^)]+)\)$`)
)

// ScanConfig configures ScanImages.
type ScanConfig struct {
	Dir        string // directory to scan, not recursive
	BaseDir    string // image URLs are made relative to this directory
	PathPrefix string // prepended to every image URL
}

// ScanImages builds avatars from the image files directly inside cfg.Dir.
// A file named "Han Solo (Captain Solo).png" yields name "Han Solo" and
// display name "Captain Solo"; otherwise both come from the file name.
func ScanImages(cfg ScanConfig) ([]domain.Avatar, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: image directory %s: %v", domain.ErrSourceRead, cfg.Dir, err)
	}

	prefix := ""
	if cfg.PathPrefix != "" {
		prefix = strings.TrimRight(cfg.PathPrefix, "/") + "/"
	}

	var avatars []domain.Avatar
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		a, err := avatarFromFile(filepath.Join(cfg.Dir, name), cfg.BaseDir, prefix)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", name, err)
		}
		avatars = append(avatars, a)
	}
	return avatars, nil
}

func avatarFromFile(path, baseDir, prefix string) (domain.Avatar, error) {
	label := extPattern.ReplaceAllString(filepath.Base(path), "")
	name, display := label, label
	if m := labelPattern.FindStringSubmatch(label); m != nil {
		name, display = m[1], m[2]
	}
	return domain.NewAvatar(name, display, prefix+imagePath(path, baseDir))
}

// imagePath returns path relative to baseDir when it lives below it,
// otherwise the absolute path. Separators are always forward slashes.
func imagePath(path, baseDir string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if baseDir != "" {
		if b, err := filepath.Abs(baseDir); err == nil {
			baseDir = b
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(abs)
}
