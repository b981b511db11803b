package main

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZipArchive(t *testing.T, archivePath string, entries map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(archivePath), 0o755))

	archiveFile, err := os.Create(archivePath)
	require.NoError(t, err)

	writer := zip.NewWriter(archiveFile)
	for name, content := range entries {
		entryWriter, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entryWriter.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, archiveFile.Close())
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = writer
	defer func() {
		os.Stdout = oldStdout
	}()

	fn()

	require.NoError(t, writer.Close())
	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	return string(out)
}

func TestLsCommandListsDirectChildren(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{
		"top.txt":     "x",
		"dir/one.txt": "x",
		"dir/two.txt": "x",
	})

	cmd := buildLsCommand()
	output := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{archivePath}))
	})

	assert.Contains(t, output, "top.txt")
	assert.Contains(t, output, "dir")
	assert.NotContains(t, output, "one.txt", "ls of the archive root must not descend into dir")
}

func TestLsCommandListsSubdirectory(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{
		"dir/one.txt": "x",
		"dir/two.txt": "x",
	})

	cmd := buildLsCommand()
	output := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{archivePath, "dir"}))
	})

	assert.Contains(t, output, "one.txt")
	assert.Contains(t, output, "two.txt")
}

func TestCatCommandStreamsEntryContent(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{"a.txt": "hello from the archive"})

	cmd := buildCatCommand()
	output := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{archivePath, "a.txt"}))
	})

	assert.Equal(t, "hello from the archive", output)
}

func TestCatCommandMissingEntry(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{"a.txt": "x"})

	cmd := buildCatCommand()
	err := cmd.RunE(cmd, []string{archivePath, "missing.txt"})
	assert.Error(t, err)
}

func TestStatCommandReportsDirectoryAndFile(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{"dir/one.txt": "x"})

	cmd := buildStatCommand()

	fileOutput := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{archivePath, "dir/one.txt"}))
	})
	assert.Contains(t, fileOutput, "directory: false")

	dirOutput := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{archivePath, "dir"}))
	})
	assert.Contains(t, dirOutput, "directory: true")
}

func TestExtractCommandWritesEntryToDisk(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{"a.txt": "extracted content"})

	dest := filepath.Join(t.TempDir(), "out", "a.txt")
	cmd := buildExtractCommand()
	require.NoError(t, cmd.RunE(cmd, []string{archivePath, "a.txt", dest}))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "extracted content", string(got))
}

func TestExtractCommandRefusesDirectory(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "fixture.zip")
	writeZipArchive(t, archivePath, map[string]string{"dir/one.txt": "x"})

	cmd := buildExtractCommand()
	err := cmd.RunE(cmd, []string{archivePath, "dir", filepath.Join(t.TempDir(), "out")})
	assert.Error(t, err)
}
