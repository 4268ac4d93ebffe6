package trace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCapture = `{"displayTimeUnit":"ns","traceEvents":[{"name":"a","ph":"B","pid":7,"args":{"b_meta":"4d000000000000"}}]}`

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "contextized_trace.json", OutputPath("trace.json", "."))
	assert.Equal(t, filepath.Join("out", "contextized_events_pid1_ts2.json"), OutputPath("/tmp/run/events_pid1_ts2.json", "out"))
	assert.Equal(t, "contextized_trace.json.gz", OutputPath("../trace.json.gz", ""))
}

func TestCompressionRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewCompressWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write([]byte(sampleCapture))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, c, DetectCompression(buf.Bytes()))

			plain, err := Decompress(buf.Bytes(), c)
			require.NoError(t, err)
			assert.Equal(t, sampleCapture, string(plain))
		})
	}
}

func TestDetectCompressionPlainJSON(t *testing.T) {
	assert.Equal(t, CompressionNone, DetectCompression([]byte(`{"traceEvents":[]}`)))
	assert.Equal(t, CompressionNone, DetectCompression(nil))
	assert.Equal(t, CompressionNone, DetectCompression([]byte{0x1f}))
}

func TestLoadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trace.json")
	require.NoError(t, os.WriteFile(input, []byte(sampleCapture), 0644))

	doc, compression, err := Load(input)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, compression)
	require.Len(t, doc.Events, 1)

	output := OutputPath(input, dir)
	require.NoError(t, WriteFile(output, doc, compression))

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, sampleCapture, string(written))

	// Input untouched, no temporary files left behind.
	original, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, sampleCapture, string(original))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadCompressedWritesSameCompression(t *testing.T) {
	for _, c := range []Compression{CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			dir := t.TempDir()

			var buf bytes.Buffer
			w, err := NewCompressWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write([]byte(sampleCapture))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			input := filepath.Join(dir, "trace.json.z")
			require.NoError(t, os.WriteFile(input, buf.Bytes(), 0644))

			doc, compression, err := Load(input)
			require.NoError(t, err)
			assert.Equal(t, c, compression)

			output := OutputPath(input, dir)
			require.NoError(t, WriteFile(output, doc, compression))

			written, err := os.ReadFile(output)
			require.NoError(t, err)
			assert.Equal(t, c, DetectCompression(written))

			plain, err := Decompress(written, c)
			require.NoError(t, err)
			assert.JSONEq(t, sampleCapture, string(plain))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorruptCompressedFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "trace.json.gz")
	require.NoError(t, os.WriteFile(input, []byte{0x1f, 0x8b, 0x00, 0x01}, 0644))

	_, _, err := Load(input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
}

func TestLoadMalformedDocument(t *testing.T) {
	input := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"events":[]}`), 0644))

	_, _, err := Load(input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
}

func TestWriteFileMissingDirectory(t *testing.T) {
	doc, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "no", "such", "dir", "contextized_trace.json")
	err = WriteFile(output, doc, CompressionNone)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "contextized_trace.json")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0644))

	doc, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)
	require.NoError(t, WriteFile(output, doc, CompressionNone))

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, sampleCapture, string(written))
}

func TestWriteFileSyncsDirectoryAfterRename(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "contextized_trace.json")

	var synced []string
	original := syncDir
	syncDir = func(d string) {
		// The file must already be in place when the directory is synced.
		_, err := os.Stat(output)
		assert.NoError(t, err)
		synced = append(synced, d)
		original(d)
	}
	t.Cleanup(func() { syncDir = original })

	doc, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)
	require.NoError(t, WriteFile(output, doc, CompressionNone))

	assert.Equal(t, []string{dir}, synced)
}

func TestWriteFileFailureSkipsDirectorySync(t *testing.T) {
	called := false
	original := syncDir
	syncDir = func(string) { called = true }
	t.Cleanup(func() { syncDir = original })

	doc, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "missing", "contextized_trace.json")
	require.Error(t, WriteFile(output, doc, CompressionNone))
	assert.False(t, called)
}
