package mdf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	magnitude "github.com/sixy6e/go-magnitude"
)

// sectionAEntry mirrors one Section A row of the MDF text format before it
// is promoted to a Descriptor, grounded on the fscanf field list in
// read_mdf.c's first pass.
type sectionAEntry struct {
	magType    string
	tlType     string
	detAmpType string
	evAmpType  string
	algoCode   int
	distMin    float64
	distMax    float64
	sgLim1     float64
	sgLim2     float64
	sgBase     float64
	applyWgt   bool
}

// LoadMDF parses the two-section MDF text file at path into a Store,
// grounded on read_mdf.c's two-pass structure: Section A defines one
// descriptor per magtype, Section B lists bulk station/TL-type
// corrections consumed by later overrides. wantTypes restricts retained
// Section A rows to the caller's requested magtype list; a nil/empty
// wantTypes retains every row, matching read_mdf.c's behaviour when the
// caller's magtype list is unrestricted.
func LoadMDF(path string, wantTypes []string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, magnitude.NewMagCannotOpenMDF(err.Error())
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	entries, corrections, err := parseMDFSections(sc)
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, magnitude.NewMagMDFFormat(err.Error())
	}

	var wanted map[string]bool
	if len(wantTypes) > 0 {
		wanted = make(map[string]bool, len(wantTypes))
		for _, t := range wantTypes {
			wanted[t] = true
		}
	}

	store := NewStore()
	tlTypeSet := map[string]bool{}

	for _, e := range entries {
		if wanted != nil && !wanted[e.magType] {
			continue
		}
		if e.sgBase < e.sgLim1 || e.sgBase > e.sgLim2 {
			return nil, magnitude.NewMagMDFFormat(fmt.Sprintf(
				"magtype %s: sgbase %.4f outside [sglim1=%.4f, sglim2=%.4f]",
				e.magType, e.sgBase, e.sgLim1, e.sgLim2))
		}

		d := &Descriptor{
			MagType:    e.magType,
			TLType:     e.tlType,
			DetAmpType: e.detAmpType,
			EvAmpType:  e.evAmpType,
			AlgoCode:   magnitude.AlgoCode(e.algoCode),
			DistMin:    e.distMin,
			DistMax:    e.distMax,
			SgLim1:     e.sgLim1,
			SgLim2:     e.sgLim2,
			SgBase:     e.sgBase,
			ApplyWgt:   e.applyWgt,
		}
		d.snapshot()
		store.descriptors[e.magType] = d
		tlTypeSet[e.tlType] = true
	}

	for _, c := range corrections {
		if store.staCorrections[c.TLType] == nil {
			store.staCorrections[c.TLType] = map[string]StationCorrection{}
		}
		store.staCorrections[c.TLType][c.Station] = c
	}

	for t := range tlTypeSet {
		store.tlTypes = append(store.tlTypes, t)
	}

	for _, d := range store.descriptors {
		if d.ApplyWgt {
			if _, ok := store.staCorrections[d.TLType]["DFAULT"]; !ok {
				return nil, magnitude.NewMagNoSiteInfo(fmt.Sprintf(
					"magtype %s: apply_wgt set but no DFAULT station correction for TL-type %s",
					d.MagType, d.TLType))
			}
		}
	}

	return store, nil
}

// parseMDFSections reads Section A rows up to the first blank line that
// follows at least one Section A row, then
// reads Section B rows to end of file, grounded on read_mdf.c's
// line-oriented field parsing (whitespace-separated tokens, "#" comment
// lines skipped, a blank line dividing the two sections).
func parseMDFSections(sc *bufio.Scanner) ([]sectionAEntry, []StationCorrection, error) {
	var entries []sectionAEntry
	var corrections []StationCorrection
	inSectionB := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if !inSectionB && len(entries) > 0 {
				inSectionB = true
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if !inSectionB {
			e, err := parseSectionARow(fields)
			if err != nil {
				return nil, nil, err
			}
			entries = append(entries, e)
			continue
		}

		c, err := parseSectionBRow(fields)
		if err != nil {
			return nil, nil, err
		}
		corrections = append(corrections, c)
	}

	return entries, corrections, nil
}

func parseSectionARow(fields []string) (sectionAEntry, error) {
	if len(fields) < 11 {
		return sectionAEntry{}, magnitude.NewMagMDFFormat(
			fmt.Sprintf("section A row has %d fields, want 11", len(fields)))
	}

	algoCode, err := strconv.Atoi(fields[4])
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid algo_code: " + fields[4])
	}
	distMin, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid dist_min: " + fields[5])
	}
	distMax, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid dist_max: " + fields[6])
	}
	sgLim1, err := strconv.ParseFloat(fields[7], 64)
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid sglim1: " + fields[7])
	}
	sgLim2, err := strconv.ParseFloat(fields[8], 64)
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid sglim2: " + fields[8])
	}
	sgBase, err := strconv.ParseFloat(fields[9], 64)
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid sgbase: " + fields[9])
	}
	// The original reads this field with %d into an int and then treats
	// any nonzero value as true; preserved verbatim rather than narrowing
	// to a strict "1" check.
	applyWgtInt, err := strconv.Atoi(fields[10])
	if err != nil {
		return sectionAEntry{}, magnitude.NewMagMDFFormat("invalid apply_wgt: " + fields[10])
	}
	applyWgt := applyWgtInt != 0

	return sectionAEntry{
		magType:    fields[0],
		tlType:     fields[1],
		detAmpType: fields[2],
		evAmpType:  fields[3],
		algoCode:   algoCode,
		distMin:    distMin,
		distMax:    distMax,
		sgLim1:     sgLim1,
		sgLim2:     sgLim2,
		sgBase:     sgBase,
		applyWgt:   applyWgt,
	}, nil
}

func parseSectionBRow(fields []string) (StationCorrection, error) {
	if len(fields) < 4 {
		return StationCorrection{}, magnitude.NewMagMDFFormat(
			fmt.Sprintf("section B row has %d fields, want 4", len(fields)))
	}
	corr, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return StationCorrection{}, magnitude.NewMagMDFFormat("invalid corr: " + fields[2])
	}
	corrErr, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return StationCorrection{}, magnitude.NewMagMDFFormat("invalid corr_error: " + fields[3])
	}
	return StationCorrection{
		Station:   fields[0],
		TLType:    fields[1],
		Corr:      corr,
		CorrError: corrErr,
	}, nil
}
