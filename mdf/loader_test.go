package mdf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMDF(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mdf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

const sampleMDF = `# section A: magtype tltype det_amp ev_amp algo distmin distmax sglim1 sglim2 sgbase applywgt
mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.3 1
ml TL1 amp_det amp_ev 1 0 50 0.1 0.5 0.25 0

DFAULT TL1 0.0 0.1
STA1 TL1 0.05 0.1
`

func TestLoadMDFParsesBothSections(t *testing.T) {
	path := writeMDF(t, sampleMDF)

	store, err := LoadMDF(path, nil)
	if err != nil {
		t.Fatalf("LoadMDF: %v", err)
	}

	mb, ok := store.Get("mb")
	if !ok {
		t.Fatalf("expected a descriptor for mb")
	}
	if mb.TLType != "TL1" || mb.DistMax != 100 || mb.SgBase != 0.3 {
		t.Fatalf("unexpected mb descriptor: %+v", mb)
	}
	if !mb.ApplyWgt {
		t.Fatalf("mb apply_wgt should be true (parsed from '1')")
	}

	ml, ok := store.Get("ml")
	if !ok {
		t.Fatalf("expected a descriptor for ml")
	}
	if ml.ApplyWgt {
		t.Fatalf("ml apply_wgt should be false (parsed from '0')")
	}

	corr, ok := store.StationCorrection("TL1", "DFAULT")
	if !ok || corr.Corr != 0.0 {
		t.Fatalf("expected a DFAULT correction of 0.0, got %+v ok=%v", corr, ok)
	}
}

func TestLoadMDFApplyWgtAnyNonzeroIsTrue(t *testing.T) {
	mdfText := `mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.3 7

DFAULT TL1 0.0 0.1
`
	path := writeMDF(t, mdfText)

	store, err := LoadMDF(path, nil)
	if err != nil {
		t.Fatalf("LoadMDF: %v", err)
	}
	mb, _ := store.Get("mb")
	if !mb.ApplyWgt {
		t.Fatalf("apply_wgt=7 should parse as true (any nonzero value)")
	}
}

func TestLoadMDFFiltersByWantTypes(t *testing.T) {
	path := writeMDF(t, sampleMDF)

	store, err := LoadMDF(path, []string{"mb"})
	if err != nil {
		t.Fatalf("LoadMDF: %v", err)
	}
	if _, ok := store.Get("mb"); !ok {
		t.Fatalf("expected mb to be retained")
	}
	if _, ok := store.Get("ml"); ok {
		t.Fatalf("expected ml to be filtered out by wantTypes")
	}
}

func TestLoadMDFSgBaseOutOfRangeIsError(t *testing.T) {
	mdfText := `mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.9 1

DFAULT TL1 0.0 0.1
`
	path := writeMDF(t, mdfText)

	if _, err := LoadMDF(path, nil); err == nil {
		t.Fatalf("expected an error when sgbase falls outside [sglim1, sglim2]")
	}
}

func TestLoadMDFMissingDFaultWithApplyWgtIsError(t *testing.T) {
	mdfText := `mb TL1 amp_det amp_ev 0 0 100 0.2 0.6 0.3 1

STA1 TL1 0.05 0.1
`
	path := writeMDF(t, mdfText)

	if _, err := LoadMDF(path, nil); err == nil {
		t.Fatalf("expected an error when apply_wgt is set but no DFAULT correction exists")
	}
}
