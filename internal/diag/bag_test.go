package diag

import "testing"

func TestBag_AddRespectsLimit(t *testing.T) {
	b := NewBag(2)

	if !b.Add(Diagnostic{Kind: "error", Severity: SevError, Message: "one"}) {
		t.Error("first Add should succeed")
	}
	if !b.Add(Diagnostic{Kind: "error", Severity: SevError, Message: "two"}) {
		t.Error("second Add should succeed")
	}
	if b.Add(Diagnostic{Kind: "error", Severity: SevError, Message: "three"}) {
		t.Error("Add beyond the limit should fail")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Kind: "note", Severity: SevInfo})
	b.Add(Diagnostic{Kind: "warning", Severity: SevWarning})

	if b.HasErrors() {
		t.Error("HasErrors() = true without errors")
	}
	b.Add(Diagnostic{Kind: "error", Severity: SevError})
	if !b.HasErrors() {
		t.Error("HasErrors() = false with an error present")
	}
}

func TestBag_SortIsDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{File: "b.sg", Line: 1, Kind: "error", Severity: SevError, Message: "late"})
	b.Add(Diagnostic{File: "a.sg", Line: 9, Kind: "warning", Severity: SevWarning, Message: "w"})
	b.Add(Diagnostic{File: "a.sg", Line: 2, Col: 4, Kind: "note", Severity: SevInfo, Message: "n"})
	b.Add(Diagnostic{File: "a.sg", Line: 2, Col: 4, Kind: "error", Severity: SevError, Message: "e"})

	b.Sort()
	items := b.Items()

	wantOrder := []string{"e", "n", "w", "late"}
	for i, want := range wantOrder {
		if items[i].Message != want {
			t.Errorf("items[%d].Message = %q, want %q", i, items[i].Message, want)
		}
	}
}

func TestFromKind(t *testing.T) {
	tests := []struct {
		kind string
		want Severity
		ok   bool
	}{
		{"error", SevError, true},
		{"ERROR", SevError, true},
		{"warning", SevWarning, true},
		{"warn", SevWarning, true},
		{"note", SevInfo, true},
		{"help", SevInfo, true},
		{"info", SevInfo, true},
		{"banana", SevInfo, false},
		{"", SevInfo, false},
	}
	for _, tc := range tests {
		got, ok := FromKind(tc.kind)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FromKind(%q) = (%v, %v), want (%v, %v)", tc.kind, got, ok, tc.want, tc.ok)
		}
	}
}
