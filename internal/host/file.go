package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Error names reported by the File host.
const (
	ErrNameNotFound   = "ItemNotFound"
	ErrNameReadFailed = "ReadFailed"
	ErrNameWriteFail  = "WriteFailed"
	ErrNameRender     = "RenderFailed"
)

// File is an AsyncHost backed by a file on disk.
//
// HTML sources are read and written in place. Markdown sources (.md,
// .markdown) are rendered to HTML on read and never overwritten: writes go to
// the output path, and once that file exists reads come from it.
type File struct {
	source string
	output string
	md     goldmark.Markdown

	mu sync.Mutex
}

// FileOption configures a File host.
type FileOption func(*File)

// WithOutputPath sets where rewritten HTML is written for Markdown sources.
func WithOutputPath(path string) FileOption {
	return func(f *File) {
		f.output = path
	}
}

// NewFile returns a File host for path.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{
		source: path,
		output: path,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	if IsMarkdown(path) {
		f.output = strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// OutputPath returns the file that writes go to.
func (f *File) OutputPath() string {
	return f.output
}

// GetBodyAsync implements AsyncHost.
func (f *File) GetBodyAsync(_ context.Context, _ CoercionType, callback func(AsyncResult[string])) {
	go func() {
		body, herr := f.read()
		if herr != nil {
			callback(Fail[string](herr))
			return
		}
		callback(Succeed(body))
	}()
}

// SetBodyAsync implements AsyncHost.
func (f *File) SetBodyAsync(_ context.Context, content string, _ SetOptions, callback func(AsyncResult[struct{}])) {
	go func() {
		if herr := f.write(content); herr != nil {
			callback(Fail[struct{}](herr))
			return
		}
		callback(Succeed(struct{}{}))
	}()
}

func (f *File) read() (string, *Error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.output != f.source {
		data, err := os.ReadFile(f.output)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Name: ErrNameReadFailed, Message: err.Error()}
		}
	}

	data, err := os.ReadFile(f.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Name: ErrNameNotFound, Message: fmt.Sprintf("%s does not exist", f.source), Code: 404}
		}
		return "", &Error{Name: ErrNameReadFailed, Message: err.Error()}
	}

	if !IsMarkdown(f.source) {
		return string(data), nil
	}

	var buf bytes.Buffer
	if err := f.md.Convert(data, &buf); err != nil {
		return "", &Error{Name: ErrNameRender, Message: err.Error()}
	}
	return buf.String(), nil
}

func (f *File) write(content string) *Error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.output)
	tmp, err := os.CreateTemp(dir, ".bluebird-*")
	if err != nil {
		return &Error{Name: ErrNameWriteFail, Message: err.Error()}
	}
	tmpName := tmp.Name()

	// The replaced file keeps its permissions; a new one gets 0644.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(f.output); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &Error{Name: ErrNameWriteFail, Message: err.Error()}
	}

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &Error{Name: ErrNameWriteFail, Message: err.Error()}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Name: ErrNameWriteFail, Message: err.Error()}
	}
	if err := os.Rename(tmpName, f.output); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Name: ErrNameWriteFail, Message: err.Error()}
	}
	return nil
}
