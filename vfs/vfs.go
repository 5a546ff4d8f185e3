package vfs

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// Element must contain only metadata (filename) as long as possible
// (before List/Open calls)
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open(readonly bool) error
	Close() error
	Reader() (*io.SectionReader, error)
	ReadAt(b []byte, off int64) (n int, err error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot get file %q", name)
	}
	if e.IsDirectory() {
		return nil, errors.Errorf("%q is a directory, not a file", name)
	}
	return e.(File), nil
}

func OpenFileAndGetReader(f File, readonly bool) (*io.SectionReader, error) {
	if err := f.Open(readonly); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %q", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get file %q reader", f.Name())
	}
	return r, nil
}

// ReadFileWhole loads the entire contents of a file in the directory.
// This is the only filesystem access path the decoders use.
func ReadFileWhole(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}

	r, err := OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file %q", name)
	}
	return data, nil
}
