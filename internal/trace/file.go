package trace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// OutputPrefix is prepended to the input base name to form the output
// file name.
const OutputPrefix = "contextized_"

// OutputPath returns where the rewritten capture of input goes when
// written to dir.
func OutputPath(input, dir string) string {
	return filepath.Join(dir, OutputPrefix+filepath.Base(input))
}

// Load reads and decodes a capture file, returning the document and
// the compression it was stored with.
func Load(path string) (*Document, Compression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, CompressionNone, &IOError{Op: "read", Path: path, Err: err}
	}

	compression := DetectCompression(data)
	plain, err := Decompress(data, compression)
	if err != nil {
		return nil, compression, &MalformedDocumentError{Reason: "decompress " + compression.String(), Err: err}
	}

	doc, err := Parse(plain)
	if err != nil {
		return nil, compression, err
	}
	return doc, compression, nil
}

// WriteFile atomically writes doc to path, compressed with c.
//
// The document goes to a uniquely named temporary file next to path,
// which is synced, closed, and renamed over path, after which the
// parent directory is synced. Any failure removes
// the temporary file, so path either holds the whole document or is
// left as it was.
func WriteFile(path string, doc *Document, c Compression) error {
	dir := filepath.Dir(path)
	temporaryPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	fail := func(step string, err error) error {
		file.Close()
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("%s: %w", step, err)}
	}

	buffered := bufio.NewWriter(file)
	compressor, err := NewCompressWriter(buffered, c)
	if err != nil {
		return fail("compress", err)
	}
	if err := doc.Encode(compressor); err != nil {
		return fail("encode", err)
	}
	if err := compressor.Close(); err != nil {
		return fail("compress", err)
	}
	if err := buffered.Flush(); err != nil {
		return fail("flush", err)
	}
	if err := file.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("close: %w", err)}
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("rename: %w", err)}
	}

	// The rename is only durable once the directory entry is on disk.
	syncDir(dir)
	return nil
}

// syncDir flushes a directory's metadata. Failures are ignored: the
// file contents are already synced and some file systems refuse to
// sync directories.
var syncDir = func(dir string) {
	parent, err := os.Open(dir)
	if err != nil {
		return
	}
	parent.Sync()
	parent.Close()
}
