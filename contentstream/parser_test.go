package contentstream

import (
	"testing"

	"github.com/tsawler/pdfsegment/core"
)

func mustParse(t *testing.T, input string) []Operation {
	t.Helper()
	ops, err := NewParser([]byte(input)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return ops
}

func TestParseTextObject(t *testing.T) {
	ops := mustParse(t, "BT /F1 12 Tf 72 712.5 Td (Hello) Tj ET")

	want := []string{"BT", "Tf", "Td", "Tj", "ET"}
	if len(ops) != len(want) {
		t.Fatalf("expected %d operations, got %d", len(want), len(ops))
	}
	for i, op := range want {
		if ops[i].Operator != op {
			t.Errorf("operation %d: expected %s, got %s", i, op, ops[i].Operator)
		}
	}

	if ops[1].Operands[0] != core.Name("F1") || ops[1].Operands[1] != core.Int(12) {
		t.Errorf("unexpected Tf operands %v", ops[1].Operands)
	}
	if ops[2].Operands[1] != core.Real(712.5) {
		t.Errorf("unexpected Td operands %v", ops[2].Operands)
	}
	if ops[3].Operands[0] != core.String("Hello") {
		t.Errorf("unexpected Tj operand %v", ops[3].Operands)
	}
}

func TestParseOperatorSpellings(t *testing.T) {
	ops := mustParse(t, "T* (a) ' 1 2 (b) \" f* d0 W* n")
	want := []string{"T*", "'", "\"", "f*", "d0", "W*", "n"}
	if len(ops) != len(want) {
		t.Fatalf("expected %d operations, got %d: %v", len(want), len(ops), ops)
	}
	for i, op := range want {
		if ops[i].Operator != op {
			t.Errorf("operation %d: expected %q, got %q", i, op, ops[i].Operator)
		}
	}
	if len(ops[2].Operands) != 3 {
		t.Errorf("expected 3 operands for \", got %d", len(ops[2].Operands))
	}
}

func TestParseTJArray(t *testing.T) {
	ops := mustParse(t, "[(A) -120 (B) 3.5 <0043>] TJ")
	if len(ops) != 1 || ops[0].Operator != "TJ" {
		t.Fatalf("unexpected operations %v", ops)
	}
	arr, ok := ops[0].Operands[0].(core.Array)
	if !ok || len(arr) != 5 {
		t.Fatalf("expected 5-element array, got %v", ops[0].Operands[0])
	}
	if arr[1] != core.Int(-120) || arr[3] != core.Real(3.5) || arr[4] != core.String("\x00C") {
		t.Errorf("unexpected array contents %v", arr)
	}
}

func TestParseOperandsDoNotLeakBetweenParsers(t *testing.T) {
	// operands left without an operator must not appear in another parse
	if _, err := NewParser([]byte("1 2 3")).Parse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := mustParse(t, "q")
	if len(ops[0].Operands) != 0 {
		t.Errorf("expected no operands, got %v", ops[0].Operands)
	}
}

func TestParseDictAndBooleans(t *testing.T) {
	ops := mustParse(t, "/OC << /Type /OCMD /On true /Off null >> BDC EMC")
	d, ok := ops[0].Operands[1].(core.Dict)
	if !ok {
		t.Fatalf("expected dictionary operand, got %T", ops[0].Operands[1])
	}
	if d["On"] != core.Bool(true) {
		t.Errorf("expected /On true, got %v", d["On"])
	}
	if _, ok := d["Off"].(core.Null); !ok {
		t.Errorf("expected /Off null, got %v", d["Off"])
	}
}

func TestParseInlineImage(t *testing.T) {
	data := "q BI /W 2 /H 2 /BPC 8 /CS /G ID \x00EI\xffEIx\x01 EI Q BT (after) Tj ET"
	ops := mustParse(t, data)

	var names []string
	for _, op := range ops {
		names = append(names, op.Operator)
	}
	want := []string{"q", "BI", "Q", "BT", "Tj", "ET"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	params := ops[1].Operands[0].(core.Dict)
	if params["W"] != core.Int(2) || params["CS"] != core.Name("G") {
		t.Errorf("unexpected inline image parameters %v", params)
	}
}

func TestParseComments(t *testing.T) {
	ops := mustParse(t, "% header\nq % save\n1 0 0 1 0 0 cm\nQ")
	if len(ops) != 3 || ops[1].Operator != "cm" || len(ops[1].Operands) != 6 {
		t.Errorf("unexpected operations %v", ops)
	}
}

func TestParseStrayBraces(t *testing.T) {
	ops := mustParse(t, "{ 1 } q )")
	if len(ops) != 1 || ops[0].Operator != "q" {
		t.Errorf("unexpected operations %v", ops)
	}
}

func TestParsePartialOnError(t *testing.T) {
	ops, err := NewParser([]byte("BT (ok) Tj (broken")).Parse()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if len(ops) != 2 || ops[1].Operator != "Tj" {
		t.Errorf("expected operations before the error, got %v", ops)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		if ops := mustParse(t, input); len(ops) != 0 {
			t.Errorf("expected no operations for %q, got %v", input, ops)
		}
	}
}

func TestParseCMapSyntax(t *testing.T) {
	cmap := "/CIDInit /ProcSet findresource begin 12 dict begin begincmap\n" +
		"1 begincodespacerange <00> <FF> endcodespacerange\n" +
		"1 beginbfrange <20> <22> [<0041> <0042> <0043>] endbfrange\n" +
		"endcmap CMapName currentdict /CMap defineresource pop end end"
	ops := mustParse(t, cmap)

	var found bool
	for _, op := range ops {
		if op.Operator == "endbfrange" {
			found = true
			if len(op.Operands) != 3 {
				t.Errorf("expected 3 operands, got %v", op.Operands)
			}
		}
	}
	if !found {
		t.Error("expected endbfrange operation")
	}
}
