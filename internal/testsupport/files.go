package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// PNGHeader is the eight-byte PNG signature followed by an IHDR chunk start,
// enough for content sniffing to report image/png.
var PNGHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// WritePhoto writes data to dir/name and returns the full path. Nil data
// writes a PNG header.
func WritePhoto(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	if data == nil {
		data = PNGHeader
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
