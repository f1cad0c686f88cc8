// Package search recursively locates MDF and TLSF configuration files
// under a URI, grounded on search/search.go's trawl/FindGsf pattern,
// retargeted from *.gsf to *.mdf/*.tlsf. Uses TileDB's VFS so the search
// works transparently against local filesystems or object stores such as
// S3, given an appropriate TileDB config.
package search

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl recursively walks uri via vfs, collecting every file whose base
// name matches pattern.
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) []string {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		panic(err)
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			panic(err)
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items = trawl(vfs, pattern, dir, items)
	}

	return items
}

// FindPattern recursively searches for files matching pattern under uri,
// the general form FindMDF/FindTLSF specialise.
func FindPattern(uri, configURI, pattern string) []string {
	return find(uri, configURI, pattern)
}

func find(uri, configURI, pattern string) []string {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		panic(err)
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	defer vfs.Free()

	return trawl(vfs, pattern, uri, make([]string, 0))
}

// FindMDF recursively searches for *.mdf files under uri, grounded on
// FindGsf. configURI, when non-empty, is a TileDB config file granting
// access to a remote object store.
func FindMDF(uri, configURI string) []string {
	return find(uri, configURI, "*.mdf")
}

// FindTLSF recursively searches for *.tlsf files under uri, grounded on
// FindGsf.
func FindTLSF(uri, configURI string) []string {
	return find(uri, configURI, "*.tlsf")
}
