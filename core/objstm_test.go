package core

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func objStmFixture(t *testing.T, compress bool) *Stream {
	t.Helper()
	header := "10 0 11 14 "
	body := "<< /A 1 >>    [1 2 (x)]"
	data := []byte(header + body)
	dict := Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(len(header))}
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		zw.Write(data)
		zw.Close()
		data = buf.Bytes()
		dict["Filter"] = Name("FlateDecode")
	}
	return &Stream{Dict: dict, Data: data}
}

func TestObjectStream(t *testing.T) {
	for _, compress := range []bool{false, true} {
		os, err := NewObjectStream(objStmFixture(t, compress))
		if err != nil {
			t.Fatalf("NewObjectStream failed: %v", err)
		}
		if os.N() != 2 {
			t.Errorf("expected N=2, got %d", os.N())
		}

		obj, idx, err := os.GetObjectByNumber(11)
		if err != nil {
			t.Fatalf("GetObjectByNumber failed: %v", err)
		}
		if idx != 1 {
			t.Errorf("expected index 1, got %d", idx)
		}
		arr, ok := obj.(Array)
		if !ok || len(arr) != 3 || arr[2] != String("x") {
			t.Errorf("unexpected object %v", obj)
		}

		obj, num, err := os.GetObjectByIndex(0)
		if err != nil {
			t.Fatalf("GetObjectByIndex failed: %v", err)
		}
		if num != 10 {
			t.Errorf("expected object 10, got %d", num)
		}
		if d, ok := obj.(Dict); !ok || d["A"] != Int(1) {
			t.Errorf("unexpected object %v", obj)
		}

		nums, _ := os.ObjectNumbers()
		if len(nums) != 2 || nums[0] != 10 || nums[1] != 11 {
			t.Errorf("unexpected object numbers %v", nums)
		}
	}
}

func TestObjectStreamErrors(t *testing.T) {
	if _, err := NewObjectStream(nil); err == nil {
		t.Error("expected error for nil stream")
	}
	if _, err := NewObjectStream(&Stream{Dict: Dict{"Type": Name("XRef")}}); err == nil {
		t.Error("expected error for wrong type")
	}
	if _, err := NewObjectStream(&Stream{Dict: Dict{"Type": Name("ObjStm"), "N": Int(1)}}); err == nil {
		t.Error("expected error for missing /First")
	}

	os, err := NewObjectStream(objStmFixture(t, false))
	if err != nil {
		t.Fatalf("NewObjectStream failed: %v", err)
	}
	if _, _, err := os.GetObjectByNumber(99); err == nil {
		t.Error("expected error for absent object")
	}
	if _, _, err := os.GetObjectByIndex(5); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestObjectStreamExtends(t *testing.T) {
	s := objStmFixture(t, false)
	s.Dict["Extends"] = IndirectRef{Number: 4}
	os, err := NewObjectStream(s)
	if err != nil {
		t.Fatalf("NewObjectStream failed: %v", err)
	}
	if os.Extends() == nil || os.Extends().Number != 4 {
		t.Errorf("expected Extends 4 0 R, got %v", os.Extends())
	}
}
