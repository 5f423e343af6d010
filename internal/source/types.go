package source

// FileID indexes a file inside its FileSet, starting at 0.
type FileID uint32

// FileFlags records how a file's content was obtained and normalised.
type FileFlags uint8

const (
	// FileVirtual marks content supplied from memory rather than disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded source. Content is already normalised: no BOM, LF
// line endings. LineIdx holds the offset of every newline byte.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// IsVirtual reports whether the file did not come from disk.
func (f *File) IsVirtual() bool { return f.Flags&FileVirtual != 0 }

// LineCol is a 1-based line and column; columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
