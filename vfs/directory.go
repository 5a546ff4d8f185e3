package vfs

import (
	"io"
	"io/ioutil"
	"os"
	path_ "path"

	"github.com/pkg/errors"
)

type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Init(parent Directory) {}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) List() ([]string, error) {
	fileinfos, err := ioutil.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error getting directory %q info", dd.path)
	}
	result := make([]string, 0, len(fileinfos))
	for _, f := range fileinfos {
		if !f.IsDir() {
			result = append(result, f.Name())
		}
	}
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	newPath := path_.Join(dd.path, name)
	s, err := os.Stat(newPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Stat error")
	}

	var e Element
	if s.IsDir() {
		e = NewDirectoryDriver(newPath)
	} else {
		e = &DirectoryDriverFile{path: newPath}
	}
	e.Init(dd)
	return e, nil
}

type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {
	if dd, ok := parent.(*DirectoryDriver); ok {
		ddf.path = path_.Join(dd.path, path_.Base(ddf.path))
	}
}

func (ddf *DirectoryDriverFile) Name() string {
	return path_.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

func (ddf *DirectoryDriverFile) Size() int64 {
	stat, err := os.Stat(ddf.path)
	if err != nil {
		return 0
	}
	return stat.Size()
}

func (ddf *DirectoryDriverFile) Open(readonly bool) error {
	if ddf.f != nil {
		return nil
	}
	flags := os.O_RDWR
	if readonly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(ddf.path, flags, 0666)
	if err != nil {
		return errors.Wrapf(err, "Cannot open %q", ddf.path)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	return err
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.Errorf("File %q is not opened", ddf.path)
	}
	stat, err := ddf.f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "Stat error")
	}
	return io.NewSectionReader(ddf.f, 0, stat.Size()), nil
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (int, error) {
	if ddf.f == nil {
		return 0, errors.Errorf("File %q is not opened", ddf.path)
	}
	return ddf.f.ReadAt(b, off)
}
