package tltable

import (
	"fmt"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"

	magnitude "github.com/sixy6e/go-magnitude"
)

// cacheRow is one grid table's flattened contents, dimensioned by a
// "type.model" label, persisted by ToTileDB as a snapshot of the parsed
// tables; this package has no reader for it. Grounded on the tiledb struct-tag
// convention used in schema.go/svp.go/attitude.go:
// `tiledb:"dtype=...,ftype=attr,var"` plus a `filters:"zstd(level=16)"`
// compression pipeline, applied here to the TL grid's flattened value
// arrays instead of sounding-depth arrays.
type cacheRow struct {
	TLType       []string  `tiledb:"dtype=string,ftype=dim"`
	DistSamples  [][]float64 `tiledb:"dtype=float64,ftype=attr,var" filters:"zstd(level=16)"`
	DepthSamples [][]float64 `tiledb:"dtype=float64,ftype=attr,var" filters:"zstd(level=16)"`
	// Values is row-major flattened: Values[i] = table i's
	// Values[depthIdx][distIdx] concatenated depth-row by depth-row.
	Values [][]float64 `tiledb:"dtype=float64,ftype=attr,var" filters:"zstd(level=16)"`
}

// tableLabels returns one "type.model" dimension label per table in
// s.tables, falling back to a positional label for any table left
// unreachable from a typeDescriptor (shouldn't occur in practice, but the
// TileDB dimension must still be populated).
func (s *Store) tableLabels() []string {
	labels := make([]string, len(s.tables))
	for i := range labels {
		labels[i] = fmt.Sprintf("table%d", i)
	}
	for typ, td := range s.descriptors {
		for _, g := range td.Groups {
			for _, idx := range g.TableIndex {
				if idx >= 0 && idx < len(labels) {
					labels[idx] = typ + "." + g.Model
				}
			}
		}
	}
	return labels
}

func flatten(grid [][]float64) []float64 {
	out := make([]float64, 0, len(grid)*len(grid[0]))
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

func unflatten(flat []float64, nDist, nDepth int) [][]float64 {
	grid := make([][]float64, nDepth)
	for i := 0; i < nDepth; i++ {
		grid[i] = flat[i*nDist : (i+1)*nDist]
	}
	return grid
}

// ToTileDB persists every table in the store as a sparse, string-dimension
// TileDB array at uri, one row per loaded table, labelled "type.model"
// by tableLabels. Unlike attitude.go/svp.go's
// ToTileDB (which call the never-defined ArrayOpenWrite), the array here
// is opened directly via tiledb.NewArray + Array.Open(TILEDB_WRITE),
// avoiding that dead reference.
func (s *Store) ToTileDB(uri string, ctx *tiledb.Context) error {
	labels := s.tableLabels()

	row := cacheRow{
		TLType:       labels,
		DistSamples:  make([][]float64, len(labels)),
		DepthSamples: make([][]float64, len(labels)),
		Values:       make([][]float64, len(labels)),
	}
	for i, table := range s.tables {
		row.DistSamples[i] = table.DistSamples
		row.DepthSamples[i] = table.DepthSamples
		row.Values[i] = flatten(table.Values)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_SPARSE)
	if err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	defer schema.Free()

	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	defer domain.Free()

	dim, err := tiledb.NewStringDimension(ctx, "TLType")
	if err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	if err := domain.AddDimensions(dim); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	if err := schema.SetDomain(domain); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}

	if err := schemaAttrs(&row, schema, ctx); err != nil {
		return err
	}

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_UNORDERED); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}

	if _, err := query.SetDataBuffer("TLType", []byte(concatStrings(row.TLType))); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}

	if err := setVarFloatBuffer(query, "DistSamples", row.DistSamples); err != nil {
		return err
	}
	if err := setVarFloatBuffer(query, "DepthSamples", row.DepthSamples); err != nil {
		return err
	}
	if err := setVarFloatBuffer(query, "Values", row.Values); err != nil {
		return err
	}

	if err := query.Submit(); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	return query.Finalize()
}

func concatStrings(ss []string) string {
	out := ""
	for _, s := range ss {
		out += s
	}
	return out
}

func setVarFloatBuffer(query *tiledb.Query, name string, data [][]float64) error {
	offsets := make([]uint64, len(data))
	flat := make([]float64, 0)
	var offset uint64
	for i, row := range data {
		offsets[i] = offset
		offset += uint64(len(row)) * 8
		flat = append(flat, row...)
	}
	if _, err := query.SetOffsetsBuffer(name, offsets); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	if _, err := query.SetDataBuffer(name, flat); err != nil {
		return magnitude.NewTLAllocation(err.Error())
	}
	return nil
}

// schemaAttrs walks a cacheRow's tagged fields and creates the
// corresponding tiledb attribute, skipping dimension fields, matching the
// schemaAttrs pattern in schema.go/svp.go but scoped to the single struct
// this package persists.
func schemaAttrs(row *cacheRow, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	values := reflect.ValueOf(row).Elem()
	types := values.Type()

	filtDefs, _ := stgpsr.ParseStruct(row, "filters")
	tdbDefs, _ := stgpsr.ParseStruct(row, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		fieldTdbDefs := make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		def, ok := fieldTdbDefs["ftype"]
		if !ok {
			return magnitude.NewTLAllocation("ftype tag not found for field " + name)
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		attr, err := tiledb.NewAttribute(ctx, name, tiledb.TILEDB_FLOAT64)
		if err != nil {
			return magnitude.NewTLAllocation(err.Error())
		}
		if err := attr.SetCellValNum(tiledb.TILEDB_VAR_NUM); err != nil {
			return magnitude.NewTLAllocation(err.Error())
		}

		filts, err := tiledb.NewFilterList(ctx)
		if err != nil {
			return magnitude.NewTLAllocation(err.Error())
		}
		defer filts.Free()

		for _, filt := range filtDefs[name] {
			if filt.Name() != "zstd" {
				continue
			}
			level, _ := filt.Attribute("level")
			f, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
			if err != nil {
				return magnitude.NewTLAllocation(err.Error())
			}
			defer f.Free()
			if err := f.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, int32(level.(int64))); err != nil {
				return magnitude.NewTLAllocation(err.Error())
			}
			if err := filts.AddFilter(f); err != nil {
				return magnitude.NewTLAllocation(err.Error())
			}
		}
		if err := attr.SetFilterList(filts); err != nil {
			return magnitude.NewTLAllocation(err.Error())
		}

		if err := schema.AddAttributes(attr); err != nil {
			return magnitude.NewTLAllocation(err.Error())
		}
	}

	return nil
}
