// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package files

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/strutil"
)

// GetRoot receives absolute or relative file name and returns first folder.
// examples:
// "" => "", ""
// "/" => "", ""
// "/abc" => "", "abc"
// "/abc/" => "abc", ""
// "/abc/def.js" => "abc", "def.js"
// "/abc/ddd/def.js" => "abc", "ddd/def.js"
// "abc/ddd/def.js" => "abc", "ddd/def.js"
func GetRoot(path string) (string, string) {
	if len(path) == 0 {
		return "", ""
	}

	lastSlash := path[len(path)-1] == '/'

	path = filepath.Clean(path)
	if path[0] == '/' {
		path = path[1:]
	}

	idx := strings.IndexRune(path, '/')
	if idx < 0 {
		if lastSlash {
			return path, ""
		}
		return "", path
	}

	return path[:idx], path[idx+1:]
}

// EnsureDirExists checks whether the dir exists and create the new one if it doesn't
func EnsureDirExists(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(dir, 0740)
		}
	} else {
		d.Close()
	}

	if err != nil {
		return fmt.Errorf("ensure dir %s returns error: %w", dir, err)
	}
	return nil
}

func ensureDirName(path string) string {
	if path == "" {
		return ""
	}
	if path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}
	return path
}

// ListDir returns files and directories non-recursive (in the dir provided only)
func ListDir(dir string) []os.FileInfo {
	dir = ensureDirName(dir)
	res := make([]os.FileInfo, 0, 10)
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		fpath, _ := filepath.Split(path)
		if ensureDirName(fpath) != dir {
			return nil
		}

		res = append(res, info)
		return nil
	})

	return res
}

// ZipFolder archives srcDir content into destFile.
// The testFunc allows to filter files. If it is provided it will be called for every found file to test
// whether it should be zipped(true) or not(false).
// The recursive param indicates whether sub-folders should be added recursively or not
func ZipFolder(srcDir, destFile string, testFunc func(string) bool, recursive bool) error {
	srcDir = ensureDirName(srcDir)
	f, err := os.Create(destFile)
	if err != nil {
		return fmt.Errorf("ZipFolder: could not create %s for write, err=%w", destFile, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if testFunc != nil && !testFunc(path) {
			return nil
		}

		if !recursive {
			dir, _ := filepath.Split(path)
			dir = ensureDirName(dir)
			if dir != srcDir {
				// skipping subfolders
				return nil
			}
		}

		dstFileName := strings.TrimPrefix(filepath.ToSlash(path[len(srcDir):]), "/")
		out, err := w.Create(dstFileName)
		if err != nil {
			return fmt.Errorf("ZipFolder: could not write %s into %s, err=%w", path, dstFileName, err)
		}

		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("ZipFolder: could not write %s into %s, err=%w", path, dstFileName, err)
		}
		_, err = io.Copy(out, in)
		in.Close()
		return err
	})
	w.Close()
	if err != nil {
		os.Remove(destFile)
	}
	return err
}

// UnzipToFolder unzips zipFile content into the destDir. The archive entries, which
// point outside the destDir (absolute paths, "../" etc.), are rejected with errors.ErrInvalid
// and nothing is written for them.
func UnzipToFolder(zipFile, destDir string) error {
	zi, err := NewZipIterator(zipFile)
	if err != nil {
		return err
	}
	defer zi.Close()

	err = EnsureDirExists(destDir)
	if err != nil {
		return fmt.Errorf("UnzipToFolder: could not create the dest dir %s err=%w", destDir, err)
	}
	pathChecked := make(map[string]bool)
	for z := zi.Next(); z != nil; z = zi.Next() {
		destFile, err := zipEntryPath(destDir, z.Name)
		if err != nil {
			return err
		}
		if z.FileInfo().IsDir() {
			if err := EnsureDirExists(destFile); err != nil {
				return fmt.Errorf("UnzipToFolder: could not create folder %s err=%w", destFile, err)
			}
			continue
		}

		destPath := filepath.Dir(destFile)
		if !pathChecked[destPath] {
			err := EnsureDirExists(destPath)
			if err != nil {
				return fmt.Errorf("UnzipToFolder: could not create folder %s err=%w", destPath, err)
			}
			pathChecked[destPath] = true
		}

		in, err := z.Open()
		if err != nil {
			return fmt.Errorf("UnzipToFolder: cannot open file \"%s\" in the ziputil archive: %w", z.Name, err)
		}
		err = WriteTo(destFile, in)
		in.Close()
		if err != nil {
			return fmt.Errorf("UnzipToFolder: could not write into %s from %s, err=%w", destFile, z.Name, err)
		}
	}

	return nil
}

// zipEntryPath returns the path of the archive entry name in the destDir
func zipEntryPath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("the archive entry %q has absolute path: %w", name, errors.ErrInvalid)
	}
	res := filepath.Join(destDir, name)
	rel, err := filepath.Rel(filepath.Clean(destDir), res)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("the archive entry %q points outside of %s: %w", name, destDir, errors.ErrInvalid)
	}
	return res, nil
}

// CreateRandomDir creates a randomly name directory in the path with prefix
func CreateRandomDir(path, prefix string) (string, error) {
	return ensureUnique(path, prefix, true)
}

// CreateRandomFileName in the path with prefix, but without creating new file there
func CreateRandomFileName(path, prefix string) (string, error) {
	return ensureUnique(path, prefix, false)
}

// RemoveFiles by path if testFunc() returns true for the FileInfo. The function
// walks into the folders recursively and a folder could be removed if all files from
// the folder are removed as well. testFunc allows to control whether to check a folder
// or not...
func RemoveFiles(path string, testFunc func(path string, fi os.FileInfo) bool) error {
	finfs := ListDir(path)
	for _, fi := range finfs {
		if !testFunc(path, fi) {
			continue
		}

		fileName := filepath.Join(path, fi.Name())
		if fi.IsDir() {
			err := RemoveFiles(filepath.Join(path, fi.Name()), testFunc)
			if err != nil {
				return err
			}
			// ignore the error if not empty
			os.Remove(fileName)
			continue
		}

		if err := os.Remove(fileName); err != nil {
			return err
		}
	}
	return nil
}

// IsDirEmpty returns weather the dir provided by the name is empty or not
func IsDirEmpty(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

// CopyDir copies dir by path "from" to the dir by path "to"
func CopyDir(from, to string) error {
	err := EnsureDirExists(to)
	if err != nil {
		return err
	}

	finfos := ListDir(from)
	for _, fi := range finfos {
		if fi.IsDir() {
			err := CopyDir(filepath.Join(from, fi.Name()), filepath.Join(to, fi.Name()))
			if err != nil {
				return err
			}
			continue
		}
		err := copyFile(filepath.Join(from, fi.Name()), filepath.Join(to, fi.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the in stream to the toPath
func WriteTo(toPath string, in io.Reader) error {
	out, err := os.Create(toPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// copyFile copies one file by path "from" to the file by path "to"
func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()
	return WriteTo(to, in)
}

func ensureUnique(path, prefix string, createDir bool) (string, error) {
	for {
		name := prefix + strutil.RandomString(16)
		filename := filepath.Join(path, name)
		_, err := os.Stat(filename)
		if os.IsNotExist(err) {
			err = nil
			if createDir {
				err = EnsureDirExists(filename)
			}
			return filename, err
		}
	}
}
