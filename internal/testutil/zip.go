package testutil

import (
	"bytes"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ZipEntry is one entry of a test archive. Names ending in "/" are directories.
type ZipEntry struct {
	Name string
	Body string
}

// File returns a file entry.
func File(name, body string) ZipEntry {
	return ZipEntry{Name: name, Body: body}
}

// Dir returns a directory entry; a trailing slash is added if missing.
func Dir(name string) ZipEntry {
	if len(name) == 0 || name[len(name)-1] != '/' {
		name += "/"
	}
	return ZipEntry{Name: name}
}

// BuildZip returns an in-memory zip archive with entries in the given order.
// Entry names are written verbatim, including unsafe ones.
func BuildZip(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/' {
			header.Method = zip.Store
		}

		fw, err := w.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to add %s: %v", e.Name, err)
		}
		if e.Body != "" {
			if _, err := fw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write %s: %v", e.Name, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	return buf.Bytes()
}

// BranchZip builds an archive shaped like a GitHub branch download of
// repoName: every file is wrapped in "<repoName>-main/", which also gets its
// own directory entry.
func BranchZip(t testing.TB, repoName string, files map[string]string) []byte {
	t.Helper()

	prefix := repoName + "-main/"
	entries := []ZipEntry{Dir(prefix)}
	for _, name := range sortedKeys(files) {
		entries = append(entries, File(prefix+name, files[name]))
	}
	return BuildZip(t, entries...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
