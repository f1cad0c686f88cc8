// Package encode writes computation results out as JSON via TileDB's VFS
// layer, grounded on encode/json.go: the same URI-agnostic write path used
// for GSF metadata, so a magnitude result can land on a local disk or an
// object store identically.
package encode

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// JSONIndentDumps marshals v as indented JSON, grounded on the
// JsonIndentDumps helper.
func JSONIndentDumps(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON writes data to fileURI via a TileDB VFS stream, so results
// (event/origin summaries, magnitude objects) can be written to any
// TileDB-supported backend. configURI, when non-empty, names a TileDB
// config file (needed for object-store credentials); when empty a
// default config is used. Grounded verbatim on WriteJson.
func WriteJSON(fileURI, configURI string, data []byte) (int, error) {
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
		return 0, err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return 0, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return 0, err
	}
	defer vfs.Free()

	stream, err := vfs.Open(fileURI, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	n, err := stream.Write(data)
	if err != nil {
		return 0, err
	}

	return n, nil
}
