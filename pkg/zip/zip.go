// Package zip builds the downloadable archive for a processed project.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

type File struct {
	Name string
	Data []byte
}

// Archive writes the files into a zip document. Entries share a single
// modification time so repeated exports of the same project are
// byte-identical.
func Archive(files []File, modTime time.Time) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
