package tltable

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	magnitude "github.com/sixy6e/go-magnitude"
)

// modelEntry is one row of a TLSF's first section: a model name and the
// directory (relative to the TLSF's own directory) its grid files live
// under.
type modelEntry struct {
	Name string
	Dir  string
}

// typeBinding is one row of a TLSF's second section: which model a TL type
// uses by default, whether its grid is split one-file-per-phase, and the
// ordered phase list it serves.
type typeBinding struct {
	Type           string
	Model          string
	PhaseDependent bool
	Phases         []string
}

// tlsfDoc is the fully-parsed, three-section content of a TL Selection
// File, grounded on read_tlsf's two-pass structure (TL_manipulation.c):
// model list, type-to-model bindings, station specialisations.
type tlsfDoc struct {
	Models    []modelEntry
	Bindings  []typeBinding
	Overrides []stationOverride
}

// LoadTLSF parses a TL Selection File and every grid file its bindings
// reference, returning a ready Store. Grounded on read_tlsf/read_tl_table
// in TL_manipulation.c: a two-pass load, first parsing the three
// blank-line-separated sections (restricted to wantTypes, the MDF-derived
// list of TL-types the caller's requested magtypes actually use, when
// non-empty), then opening each retained binding's grid file(s) relative
// to the TLSF's own directory.
func LoadTLSF(path string, wantTypes []string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, magnitude.NewTLCannotOpenTLSF(path)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	doc, err := parseTLSF(f, path)
	if err != nil {
		return nil, err
	}

	bindings := doc.Bindings
	if len(wantTypes) > 0 {
		wanted := make(map[string]bool, len(wantTypes))
		for _, t := range wantTypes {
			wanted[t] = true
		}
		filtered := bindings[:0]
		for _, b := range bindings {
			if wanted[b.Type] {
				filtered = append(filtered, b)
			}
		}
		bindings = filtered
	}
	if len(bindings) == 0 {
		return nil, magnitude.NewTLNoTables(path)
	}

	modelDirs := make(map[string]string, len(doc.Models))
	for _, m := range doc.Models {
		modelDirs[m.Name] = m.Dir
	}

	store := newStore()
	store.rawOverrides = doc.Overrides

	for _, b := range bindings {
		modelDir, ok := modelDirs[b.Model]
		if !ok {
			return nil, magnitude.NewTLSFFormat(
				fmt.Sprintf("%s: binding for type %s names unknown model %s", path, b.Type, b.Model))
		}

		td, ok := store.descriptors[b.Type]
		if !ok {
			td = &typeDescriptor{Type: b.Type, Groups: map[string]*modelGroup{}}
			store.descriptors[b.Type] = td
		}
		if td.Default == "" {
			td.Default = b.Model
		}

		group := &modelGroup{Model: b.Model, Phases: b.Phases, TableIndex: make([]int, len(b.Phases))}
		for i := range group.TableIndex {
			group.TableIndex[i] = -1
		}

		if b.PhaseDependent {
			for i, phase := range b.Phases {
				gridPath := filepath.Join(dir, modelDir, b.Model+"."+b.Type+"."+phase)
				idx, err := loadAndAppendTable(store, gridPath)
				if err != nil {
					if !isMissingFile(err) {
						return nil, err
					}
					log.Printf("tltable: %s", err)
					continue
				}
				group.TableIndex[i] = idx
			}
		} else {
			gridPath := filepath.Join(dir, modelDir, b.Model+"."+b.Type)
			idx, err := loadAndAppendTable(store, gridPath)
			if err != nil {
				if !isMissingFile(err) {
					return nil, err
				}
				log.Printf("tltable: %s", err)
			} else {
				for i := range group.TableIndex {
					group.TableIndex[i] = idx
				}
			}
		}

		td.Groups[b.Model] = group
	}

	if len(store.tables) == 0 {
		return nil, magnitude.NewTLNoTables(path)
	}

	store.SetStationLinks(nil)
	return store, nil
}

func isMissingFile(err error) bool {
	tlErr, ok := err.(*magnitude.TLError)
	return ok && tlErr.Kind == magnitude.TLWarn
}

func loadAndAppendTable(store *Store, gridPath string) (int, error) {
	table, err := LoadTable(gridPath)
	if err != nil {
		return -1, err
	}
	if err := loadTestSiteSidecar(table, gridPath); err != nil {
		return -1, err
	}
	store.tables = append(store.tables, table)
	return len(store.tables) - 1, nil
}

// parseTLSF splits a TLSF's three sections on blank lines: a section only
// advances once the current one has collected at least one row, so
// repeated blank lines (or leading ones) never skip a whole section,
// grounded on the MDF loader's matching blank-line-separator fix.
func parseTLSF(f *os.File, path string) (*tlsfDoc, error) {
	var sections [3][]string
	section := 0

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" {
			if section < 2 && len(sections[section]) > 0 {
				section++
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if section > 2 {
			return nil, magnitude.NewTLSFFormat(fmt.Sprintf("%s:%d: more than three sections", path, lineNo))
		}
		sections[section] = append(sections[section], trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, magnitude.NewTLSFFormat(err.Error())
	}

	doc := &tlsfDoc{}

	for _, line := range sections[0] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, magnitude.NewTLSFFormat(fmt.Sprintf("%s: expected model name and directory columns", path))
		}
		doc.Models = append(doc.Models, modelEntry{Name: fields[0], Dir: fields[1]})
	}

	for _, line := range sections[1] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, magnitude.NewTLSFFormat(
				fmt.Sprintf("%s: expected type, model, phase-dependency flag and phase list columns", path))
		}
		flag, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, magnitude.NewTLSFFormat(fmt.Sprintf("%s: invalid phase-dependency flag %q", path, fields[2]))
		}
		phases := strings.Split(fields[3], ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
		doc.Bindings = append(doc.Bindings, typeBinding{
			Type:           fields[0],
			Model:          fields[1],
			PhaseDependent: flag != 0,
			Phases:         phases,
		})
	}

	for _, line := range sections[2] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, magnitude.NewTLSFFormat(
				fmt.Sprintf("%s: expected station, type, model and phase columns", path))
		}
		channel := "-"
		if len(fields) >= 5 {
			channel = fields[4]
		}
		phase := fields[3]
		if phase == "-" && channel != "-" {
			return nil, magnitude.NewTLSFFormat(fmt.Sprintf("%s: channel specialisation without phase", path))
		}
		doc.Overrides = append(doc.Overrides, stationOverride{
			Station: fields[0],
			Type:    fields[1],
			Model:   fields[2],
			Phase:   phase,
			Channel: channel,
		})
	}

	return doc, nil
}

// tokenReader flattens a grid file's non-comment, non-blank content into a
// whitespace-delimited token stream, matching the original's fscanf-based
// reads (which do not respect line boundaries between a count and the
// values that follow it).
type tokenReader struct {
	tokens []string
	idx    int
}

func newTokenReader(f *os.File) (*tokenReader, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tokens []string
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(trimmed)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &tokenReader{tokens: tokens}, nil
}

func (r *tokenReader) next() (string, bool) {
	if r.idx >= len(r.tokens) {
		return "", false
	}
	tok := r.tokens[r.idx]
	r.idx++
	return tok, true
}

func (r *tokenReader) nextInt() (int, error) {
	tok, ok := r.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of input, expected an integer")
	}
	return strconv.Atoi(tok)
}

func (r *tokenReader) nextFloat() (float64, error) {
	tok, ok := r.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of input, expected a number")
	}
	return strconv.ParseFloat(tok, 64)
}

func (r *tokenReader) nextFloats(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := r.nextFloat()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *tokenReader) atEnd() bool {
	return r.idx >= len(r.tokens)
}

// LoadTable parses a single TL grid file: num_depths, Nz depth floats,
// num_distances, Nd distance floats, then Nz rows of Nd correction values
// (one row per depth sample), followed by an optional modelling-error
// block. Phase and channel are not part of this file; they come from the
// TLSF row or filename that named it. Grounded on read_tl_table.c's
// count-prefixed layout (lines 170-262). A hole in the data is only ever
// checked for and recorded on the shallowest (first) depth row.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, magnitude.NewTLFileNotFound(path)
	}
	defer f.Close()

	r, err := newTokenReader(f)
	if err != nil {
		return nil, magnitude.NewTLTableFormat(err.Error())
	}

	numDepths, err := r.nextInt()
	if err != nil {
		return nil, magnitude.NewTLTableFormat(path + ": num_depths: " + err.Error())
	}
	depthSamples, err := r.nextFloats(numDepths)
	if err != nil {
		return nil, magnitude.NewTLTableFormat(path + ": depth samples: " + err.Error())
	}

	numDistances, err := r.nextInt()
	if err != nil {
		return nil, magnitude.NewTLTableFormat(path + ": num_distances: " + err.Error())
	}
	distSamples, err := r.nextFloats(numDistances)
	if err != nil {
		return nil, magnitude.NewTLTableFormat(path + ": distance samples: " + err.Error())
	}

	table := &Table{
		DistSamples:  distSamples,
		DepthSamples: depthSamples,
		Values:       make([][]float64, numDepths),
	}

	for row := 0; row < numDepths; row++ {
		values, holeStart, holeEnd, hasHole, err := parseTableRow(r, numDistances)
		if err != nil {
			return nil, magnitude.NewTLTableFormat(fmt.Sprintf("%s: row %d: %s", path, row, err.Error()))
		}
		table.Values[row] = values

		// Hole detection is only ever performed on the shallowest depth
		// row, matching read_tl_table.c.
		if row == 0 && hasHole {
			table.InHoleDist = [2]float64{distSamples[holeStart], distSamples[holeEnd]}
		}
	}

	if err := loadModelError(table, r); err != nil {
		return nil, err
	}

	return table, nil
}

// parseTableRow reads want correction values, flagging any sample ≤ −1.0
// as invalid, grounded on VALID_TL's literal threshold test (x > -1.0) in
// read_tl_table.c: the sentinel is any value at or below -1.0, not merely
// the canonical -1.0 itself.
func parseTableRow(r *tokenReader, want int) (values []float64, holeStart, holeEnd int, hasHole bool, err error) {
	values = make([]float64, want)
	holeStart, holeEnd = -1, -1

	for i := 0; i < want; i++ {
		v, ferr := r.nextFloat()
		if ferr != nil {
			return nil, 0, 0, false, ferr
		}
		values[i] = v

		if v <= -1.0 {
			if holeStart == -1 {
				holeStart = i
			}
			holeEnd = i
			hasHole = true
		}
	}
	if !hasHole {
		return values, 0, 0, false, nil
	}
	return values, holeStart, holeEnd, true, nil
}

// loadModelError reads the optional trailing modelling-error block: two
// integers Nd, Nz, then dispatching by their values, grounded on
// get_tl_model_error's bulk/1-D/2-D dispatch in TL_manipulation.c
// (lines 302-304): Nz==1 && Nd==1 is a single bulk variance, Nz==1 &&
// Nd>1 is a distance-only variance curve, anything else is a full 2-D
// grid sampled exactly like the correction grid.
func loadModelError(table *Table, r *tokenReader) error {
	if r.atEnd() {
		return nil
	}

	nd, err := r.nextInt()
	if err != nil {
		return magnitude.NewTLModelErrorFormat(err.Error())
	}
	nz, err := r.nextInt()
	if err != nil {
		return magnitude.NewTLModelErrorFormat(err.Error())
	}

	me := &ModelError{}
	switch {
	case nz == 1 && nd == 1:
		v, err := r.nextFloat()
		if err != nil {
			return magnitude.NewTLModelErrorFormat("missing bulk modelling error value: " + err.Error())
		}
		me.Kind = BulkModelError
		me.Bulk = v

	case nz == 1 && nd > 1:
		values, err := r.nextFloats(nd)
		if err != nil {
			return magnitude.NewTLModelErrorFormat("distance-dependent modelling error row: " + err.Error())
		}
		me.Kind = DistanceOnlyModelError
		me.DistVar = values

	default:
		grid := make([][]float64, len(table.DepthSamples))
		for row := range grid {
			values, err := r.nextFloats(nd)
			if err != nil {
				return magnitude.NewTLModelErrorFormat(fmt.Sprintf("2-D modelling error row %d: %s", row, err.Error()))
			}
			grid[row] = values
		}
		me.Kind = TwoDModelError
		me.DistDepthVar = grid
	}

	table.ModelErr = me
	return nil
}

// loadTestSiteSidecar reads the optional ".ts_dir" sidecar of tablePath,
// if one exists. Per read_tl_table.c:501-564, the sidecar does not itself
// contain corrections: it holds a path to a separate file listing
// test-site regions, each a header row (region_number, region_name, type,
// num_stations) followed by num_stations (station, correction) rows.
// Station names suffixed with '*' are stored with the '*' stripped;
// Table.TestSiteCorrection matches them by exact name, not as prefixes.
func loadTestSiteSidecar(table *Table, tablePath string) error {
	sidecarPath := tablePath + ".ts_dir"
	sidecar, err := os.Open(sidecarPath)
	if err != nil {
		return nil // sidecar is optional
	}
	defer sidecar.Close()

	scanner := bufio.NewScanner(sidecar)
	var targetPath string
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		targetPath = trimmed
		break
	}
	if err := scanner.Err(); err != nil {
		return magnitude.NewTLTestSiteFormat(err.Error())
	}
	if targetPath == "" {
		return magnitude.NewTLTestSiteFormat(sidecarPath + ": empty, expected a path to a test-site region file")
	}
	if !filepath.IsAbs(targetPath) {
		targetPath = filepath.Join(filepath.Dir(tablePath), targetPath)
	}

	regionsFile, err := os.Open(targetPath)
	if err != nil {
		return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: %s", sidecarPath, err.Error()))
	}
	defer regionsFile.Close()

	r, err := newTokenReader(regionsFile)
	if err != nil {
		return magnitude.NewTLTestSiteFormat(err.Error())
	}

	numRegions, err := r.nextInt()
	if err != nil {
		return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: num_regions: %s", targetPath, err.Error()))
	}

	regions := make([]TestSiteRegion, 0, numRegions)
	for i := 0; i < numRegions; i++ {
		number, err := r.nextInt()
		if err != nil {
			return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d number: %s", targetPath, i, err.Error()))
		}
		name, ok := r.next()
		if !ok {
			return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d: missing name", targetPath, i))
		}
		regionType, ok := r.next()
		if !ok {
			return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d: missing type", targetPath, i))
		}
		numStations, err := r.nextInt()
		if err != nil {
			return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d num_stations: %s", targetPath, i, err.Error()))
		}

		stations := make(map[string]float64, numStations)
		for j := 0; j < numStations; j++ {
			sta, ok := r.next()
			if !ok {
				return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d station %d: missing station", targetPath, i, j))
			}
			corr, err := r.nextFloat()
			if err != nil {
				return magnitude.NewTLTestSiteFormat(fmt.Sprintf("%s: region %d station %d: %s", targetPath, i, j, err.Error()))
			}
			stations[strings.TrimSuffix(sta, "*")] = corr
		}

		regions = append(regions, TestSiteRegion{
			Number:   number,
			Name:     name,
			Type:     regionType,
			Stations: stations,
		})
	}

	table.TestSiteRegions = regions
	return nil
}
