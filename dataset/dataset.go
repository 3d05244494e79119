// Package dataset fetches and unpacks the input corpus. It sits outside
// the dispatch core: the coordinator only sees the file list it returns.
package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fetch ensures the corpus named by src is available locally and returns
// its sorted file list. A URL is downloaded (once) and, if it is a zip,
// extracted into dir (once); a local file or directory is used as-is.
func Fetch(src, dir string) ([]string, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return listLocal(src)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	archive := filepath.Base(src)
	if _, err := os.Stat(archive); os.IsNotExist(err) {
		log.Printf("[COORD] downloading %s ...", src)
		if err := download(src, archive); err != nil {
			return nil, err
		}
		log.Printf("[COORD] download complete")
	} else {
		log.Printf("[COORD] found %s, skip download", archive)
	}

	files, err := listDir(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("[COORD] unzipping %s ...", archive)
		if err := unzip(archive, dir); err != nil {
			return nil, err
		}
		if files, err = listDir(dir); err != nil {
			return nil, err
		}
	} else {
		log.Printf("[COORD] %s already populated, skip unzip", dir)
	}
	log.Printf("[COORD] found %d files", len(files))
	return files, nil
}

func listLocal(src string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", src, err)
	}
	if !info.IsDir() {
		return []string{src}, nil
	}
	return listDir(src)
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func download(url, dst string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func unzip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		// Flatten: extract by base name only, refusing path traversal.
		name := filepath.Base(zf.Name)
		if name == "." || name == ".." {
			continue
		}
		if err := extractFile(zf, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, dst string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
