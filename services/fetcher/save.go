package fetcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cmsdata/lib/table"
)

// Save writes the table to <dir>/<name>.csv, creating dir if needed, and
// returns the path written. The file only appears once it is complete.
func Save(name string, t table.Table, dir string) (string, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.csv", name))
	f, err := os.CreateTemp(dir, fmt.Sprintf(".%s.*.csv", name))
	if err != nil {
		return "", err
	}
	tmp := f.Name()

	err = table.WriteCSV(f, t)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	err = f.Close()
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	err = os.Rename(tmp, path)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}

	slog.Info("saved dataset", "name", name, "rows", t.NumRows(), "path", path)
	return path, nil
}
