package source

// FileID identifies a file name within a FileSet.
type FileID uint32

// BasicClassFile is the location of the synthesized built-in classes.
const BasicClassFile FileID = 0

// BasicClassName is how BasicClassFile is displayed.
const BasicClassName = "<basic class>"

// File is one registered location name.
type File struct {
	ID   FileID
	Path string
}
