package domain

import (
	"fmt"
	"mime"
	"path/filepath"
)

// DefaultContentType is used when neither the source nor the file extension
// tells us what a file contains.
const DefaultContentType = "application/octet-stream"

// File is a file selected for upload, either picked by the user or fetched
// from the sample server.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewFile builds a File, guessing the content type from the file extension
// when contentType is empty.
func NewFile(name, contentType string, data []byte) *File {
	if contentType == "" {
		contentType = ContentTypeFor(name)
	}
	return &File{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

// Size returns the file size in bytes.
func (f *File) Size() int {
	return len(f.Data)
}

// SizeLabel formats the size in kilobytes with one decimal (e.g. "2.0 KB").
func (f *File) SizeLabel() string {
	return FormatSize(f.Size())
}

// FormatSize formats a byte count as kilobytes with one decimal.
func FormatSize(bytes int) string {
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}

// ContentTypeFor guesses a content type from a file name's extension.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}
