package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store keeps uploaded files on local disk under baseDir and hands out
// stable URLs of the form <baseURL>/uploads/<subdir>/<uuid><ext>. URLs are
// stored inline in the owning records; removing a file never touches the
// record that references it.
type Store struct {
	baseDir  string
	baseURL  string
	maxBytes int64
}

// allowed upload extensions per field family
var docExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".png": true,
	".jpg": true, ".jpeg": true, ".mp4": true, ".pptx": true, ".zip": true,
}

func NewStore(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: baseURL, maxBytes: 25 << 20} // 25MB
}

// Save persists one uploaded file and returns its public URL.
func (s *Store) Save(fh *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !docExts[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := readAtMost(f, s.maxBytes)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + subdir + "/" + name, nil
}

// Remove deletes the file behind a URL previously issued by Save. Unknown
// URLs are ignored: the reference may point at an already cleaned file.
func (s *Store) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/uploads/")
	if !ok {
		return nil
	}
	// не даём выйти за пределы baseDir
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Dir returns the root directory served as /uploads.
func (s *Store) Dir() string { return s.baseDir }

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file is too large (limit %d bytes)", max)
	}
	return b, nil
}
