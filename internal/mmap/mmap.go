// Package mmap opens files read-only as byte slices, memory-mapped on unix
// systems and read into memory elsewhere.
package mmap

// File is an opened file's contents. Bytes is invalid after Close.
type File struct {
	data  []byte
	unmap func([]byte) error
}

// Bytes returns the file contents. The slice must not be modified.
func (f *File) Bytes() []byte {
	return f.data
}

// Len returns the file size.
func (f *File) Len() int {
	return len(f.data)
}

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	data := f.data
	f.data = nil
	if data == nil || f.unmap == nil {
		return nil
	}
	return f.unmap(data)
}
