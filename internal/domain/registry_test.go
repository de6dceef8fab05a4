package domain

import "testing"

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if !r.Register(Instrument{Name: "GOLD", Code: "088691"}) {
		t.Fatal("first Register returned false")
	}
	if r.Register(Instrument{Name: "GOLD", Code: "999999"}) {
		t.Error("duplicate name Register returned true")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	// original entry untouched by the duplicate
	if got := r.Instruments()[0].Code; got != "088691" {
		t.Errorf("Code = %q, want %q", got, "088691")
	}
}

func TestRegistryRejectsBlankEntries(t *testing.T) {
	r := NewRegistry()

	if r.Register(Instrument{Name: "", Code: "088691"}) {
		t.Error("blank name accepted")
	}
	if r.Register(Instrument{Name: "GOLD", Code: "  "}) {
		t.Error("blank code accepted")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistryDisplayNameDefault(t *testing.T) {
	r := NewRegistry(
		Instrument{Name: "GOLD", Code: "088691"},
		Instrument{Name: "SILVER", Code: "084691", DisplayName: "Silver (COMEX)"},
	)

	insts := r.Instruments()
	if insts[0].DisplayName != "GOLD" {
		t.Errorf("DisplayName = %q, want fallback to name", insts[0].DisplayName)
	}
	if insts[1].DisplayName != "Silver (COMEX)" {
		t.Errorf("DisplayName = %q, want explicit label kept", insts[1].DisplayName)
	}
}

func TestRegistryOrderPreserved(t *testing.T) {
	r := NewRegistry(
		Instrument{Name: "GOLD", Code: "1"},
		Instrument{Name: "SILVER", Code: "2"},
		Instrument{Name: "COPPER", Code: "3"},
	)

	want := []string{"GOLD", "SILVER", "COPPER"}
	for i, inst := range r.Instruments() {
		if inst.Name != want[i] {
			t.Errorf("instrument %d = %q, want %q", i, inst.Name, want[i])
		}
	}
}
