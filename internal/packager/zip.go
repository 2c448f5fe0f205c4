// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry is a file to be archived. Source is read when the entry is written.
type Entry struct {
	Name   string
	Source string
	Mode   fs.FileMode
}

// fixedModTime is the earliest timestamp the zip format can represent.
var fixedModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriteDeterministicZip writes a byte-stable zip to w. Groups are written in order and
// entries are sorted by name within each group.
func WriteDeterministicZip(w io.Writer, groups ...[]Entry) error {
	zw := zip.NewWriter(w)
	for _, group := range groups {
		items := make([]Entry, len(group))
		copy(items, group)
		sort.Slice(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})
		for _, e := range items {
			if err := writeEntry(zw, e); err != nil {
				_ = zw.Close()
				return err
			}
		}
	}
	return zw.Close()
}

func writeEntry(zw *zip.Writer, e Entry) error {
	h := &zip.FileHeader{
		Name:   filepath.ToSlash(e.Name),
		Method: zip.Deflate,
	}
	h.Modified = fixedModTime
	h.SetMode(normalizeMode(e.Mode))

	f, err := os.Open(e.Source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", e.Source, err)
	}
	defer f.Close()

	wr, err := zw.CreateHeader(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(wr, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", e.Source, err)
	}
	return nil
}

func normalizeMode(mode fs.FileMode) fs.FileMode {
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}
