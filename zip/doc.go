// Package zip presents the contents of a ZIP archive as a read-only,
// hierarchical virtual filesystem: existence tests, directory enumeration,
// modification-time queries, UNIX symbolic link resolution, and streaming
// or random-access reads with transparent DEFLATE decompression.
//
// Unlike archive/zip, this package never assumes an io.ReaderAt or an
// io/fs.FS: it speaks to the archive only through the Source interface, and
// exposes its own explicit, PhysicsFS-style operations (OpenArchive,
// Exists, IsDirectory, IsSymLink, GetLastModTime, EnumerateFiles, OpenRead)
// rather than io/fs.FS. Central-directory parsing happens once, up front,
// at OpenArchive; local file headers are validated lazily, the first time
// each entry is actually opened.
//
// Only the STORE and DEFLATE compression methods are supported; multi-disk
// archives, ZIP64 extensions, and encryption are rejected as unsupported.
// Writing to an archive is not supported.
package zip
