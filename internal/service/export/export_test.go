package export

import "testing"

func TestTemplate_Headers(t *testing.T) {
	svc := NewService(nil, nil)

	for _, kind := range TemplateKinds() {
		f, err := svc.Template(kind)
		if err != nil {
			t.Fatalf("Template(%s): %v", kind, err)
		}

		want := templateHeaders[kind]
		for i, header := range want {
			cell, err := f.GetCellValue(sheetName, string(rune('A'+i))+"1")
			if err != nil {
				t.Fatalf("Template(%s) read cell: %v", kind, err)
			}
			if cell != header {
				t.Errorf("Template(%s) column %d = %q, want %q", kind, i+1, cell, header)
			}
		}
	}
}

func TestTemplate_UnknownKind(t *testing.T) {
	svc := NewService(nil, nil)

	if _, err := svc.Template("vehicles"); err == nil {
		t.Fatal("expected error for unknown template kind")
	}
}
