// Package upload manages the per-request folder uploaded photos are saved to.
package upload

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vistoria-app/vistoria/internal/describe"
	"github.com/vistoria-app/vistoria/internal/models"
)

// Workspace is a temporary folder owned by a single request.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a fresh folder under baseDir (the system temp dir when empty).
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(baseDir, "vistoria-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Cleanup removes the workspace and everything saved into it.
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.Dir); err != nil {
		slog.Error("Unable to remove upload workspace", "dir", w.Dir, "err", err)
	}
}

// SaveAll stores every file with an allowed extension under its sanitized
// name. Files that are not accepted are skipped and reported by name.
func (w *Workspace) SaveAll(files []*multipart.FileHeader) ([]models.UploadedImage, []string, error) {
	var saved []models.UploadedImage
	var skipped []string

	for _, fh := range files {
		name := SecureFilename(fh.Filename)
		if name == "" || !describe.IsAllowed(name) {
			slog.Warn("Skipping upload with unsupported name or extension", "filename", fh.Filename)
			skipped = append(skipped, fh.Filename)
			continue
		}

		path := filepath.Join(w.Dir, name)
		if err := saveFile(fh, path); err != nil {
			return nil, nil, err
		}
		saved = append(saved, models.UploadedImage{Filename: name, Path: path})
	}

	return saved, skipped, nil
}

func saveFile(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save upload %s: %w", fh.Filename, err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})

// SecureFilename reduces a client supplied name to a safe flat filename:
// accents are decomposed and dropped, path separators and whitespace become
// underscores, anything outside [A-Za-z0-9_.-] is removed and leading or
// trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(filename string) string {
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(nonASCII)), filename)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")
	return strings.Trim(ascii, "._")
}
