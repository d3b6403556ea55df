package db

import "testing"

func TestIndexBuilder_Build(t *testing.T) {
	def, err := NewIndex("truthguard:claim:idx").
		Prefix("truthguard:claim:").
		Tag("status").
		Text("content").
		NumericSortable("created_at").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if def.Name != "truthguard:claim:idx" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(def.Fields))
	}
	if !def.Fields[2].Sortable {
		t.Error("created_at must be sortable")
	}
}

func TestIndexBuilder_VectorValidation(t *testing.T) {
	_, err := NewIndex("bad").VectorHNSW("embedding", 0, DistanceCosine, 16, 200).Build()
	if err == nil {
		t.Fatal("expected error for zero vector DIM")
	}

	def, err := NewIndex("truthguard:article:idx").
		Prefix("truthguard:article:").
		VectorHNSW("embedding", 768, DistanceCosine, 32, 400).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if def.Fields[0].VectorDim != 768 {
		t.Errorf("dim = %d", def.Fields[0].VectorDim)
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	bad := &IndexDefinition{}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty definition")
	}

	dup := &IndexDefinition{
		Name: "idx",
		Fields: []IndexField{
			{Name: "status", Type: IndexFieldTag},
			{Name: "status", Type: IndexFieldText},
		},
	}
	if err := dup.Validate(); err == nil {
		t.Error("expected error for duplicate field")
	}

	if IsValidIdentifier("bad name!") {
		t.Error("identifier with space/bang must be invalid")
	}
	if !IsValidIdentifier("truthguard:claim:idx") {
		t.Error("colon-separated identifier must be valid")
	}
}
