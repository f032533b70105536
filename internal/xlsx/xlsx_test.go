package xlsx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// writeWorkbook builds a minimal .xlsx with one sheet that mixes shared
// strings, inline strings, and numeric cells.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	p := filepath.Join(tmp, "dilution.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	entries := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
 xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
 <sheets><sheet name="Digest" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><t>sample_id</t></si><si><t>df</t></si><si><t>SOIL 1</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
 <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
 <row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>2.5</v></c></row>
 <row r="3"><c r="A3" t="inlineStr"><is><t>SOIL_2</t></is></c><c r="C3"><v>9</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return p
}

func TestReadSheet(t *testing.T) {
	p := writeWorkbook(t)
	rows, err := ReadSheet(p, "", 0)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "sample_id" || rows[0][1] != "df" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "SOIL 1" || rows[1][1] != "2.5" {
		t.Fatalf("row 2 = %v", rows[1])
	}
	// gap cell B3 must stay empty so columns align
	if rows[2][0] != "SOIL_2" || rows[2][1] != "" || rows[2][2] != "9" {
		t.Fatalf("row 3 = %v", rows[2])
	}
}

func TestReadSheetByName(t *testing.T) {
	p := writeWorkbook(t)
	if _, err := ReadSheet(p, "Digest", 0); err != nil {
		t.Fatalf("ReadSheet by name: %v", err)
	}
	if _, err := ReadSheet(p, "Nope", 0); err == nil {
		t.Fatalf("expected error for unknown sheet name")
	}
}

func TestReadSheetMissingFile(t *testing.T) {
	if _, err := ReadSheet(filepath.Join(t.TempDir(), "absent.xlsx"), "", 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
