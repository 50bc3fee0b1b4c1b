// internal/scan/scan.go
// Package scan locates EPU per-exposure XML sidecar files under a project
// directory.
package scan

import (
	"io/fs"
	"path/filepath"
)

// EPU writes exposures into directories named "Data", one sidecar XML per
// exposure named Foil*.xml.
const (
	dataDirName = "Data"
	xmlPattern  = "Foil*.xml"
)

// Result is what a traversal found.
type Result struct {
	XMLFiles []string // sidecar files, traversal order
	DataDirs int      // number of Data directories visited
}

// Find walks root and globs Foil*.xml inside every directory whose base
// name is Data. Iteration order is whatever the filesystem yields; the
// pipeline makes no ordering promise of its own.
func Find(root string) (Result, error) {
	var res Result
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || filepath.Base(path) != dataDirName {
			return nil
		}
		res.DataDirs++
		matches, err := filepath.Glob(filepath.Join(path, xmlPattern))
		if err != nil {
			return err
		}
		res.XMLFiles = append(res.XMLFiles, matches...)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
