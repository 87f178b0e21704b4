package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
)

// expandScripts turns arguments into script paths: files are kept as
// given, directories are walked for *.toml (prover.toml excluded). Repeats
// are dropped.
func expandScripts(args []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "script %q", arg)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".toml" || d.Name() == configName {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %q", arg)
		}
		if len(found) == 0 {
			return nil, errors.Newf("no .toml scripts under %q", arg)
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}
