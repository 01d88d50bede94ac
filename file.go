package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Override writes the text produced by content to path on fsys, creating
// missing parent directories and replacing any existing file. content runs
// before anything is touched; if it fails, the filesystem is left as it was.
//
//	err := sheet.Override(afero.NewOsFs(), "out/report.csv", func() (string, error) {
//		return t.Render(sheet.WithSort(sheet.Desc("total")))
//	})
func Override(fsys afero.Fs, path string, content func() (string, error)) error {
	text, err := content()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fsys, path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadLines returns the lines of the file at path on fsys, without line
// terminators.
func ReadLines(fsys afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return splitLines(string(data)), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
