// internal/epuxml/epuxml_test.go
package epuxml

import (
	"errors"
	"testing"
)

const fixture = `<?xml version="1.0" encoding="utf-8"?>
<MicroscopeImage xmlns="http://schemas.datacontract.org/2004/07/Fei.SharedObjects">
  <CustomData xmlns:a="http://schemas.microsoft.com/2003/10/Serialization/Arrays">
    <a:KeyValueOfstringanyType>
      <a:Key>AppliedDefocus</a:Key>
      <a:Value>-1.2E-06</a:Value>
    </a:KeyValueOfstringanyType>
    <a:KeyValueOfstringanyType>
      <a:Key>Aperture[C2].Name</a:Key>
      <a:Value>50</a:Value>
    </a:KeyValueOfstringanyType>
  </CustomData>
  <microscopeData>
    <gun>
      <AccelerationVoltage>300000</AccelerationVoltage>
    </gun>
    <optics>
      <SpotIndex>5</SpotIndex>
    </optics>
  </microscopeData>
  <SpatialScale>
    <pixelSize>
      <x>
        <numericValue>1.05E-10</numericValue>
      </x>
      <y>
        <numericValue>1.05E-10</numericValue>
      </y>
    </pixelSize>
  </SpatialScale>
  <foreign xmlns="urn:other">
    <SpotIndex>999</SpotIndex>
  </foreign>
</MicroscopeImage>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	d, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return d
}

func TestScalarFound(t *testing.T) {
	root := mustParse(t).Root()
	v, err := root.Scalar(SharedObjectsNS, "AccelerationVoltage")
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if v != "300000" {
		t.Errorf("AccelerationVoltage = %q, want 300000", v)
	}
}

func TestScalarMissingIsFieldError(t *testing.T) {
	root := mustParse(t).Root()
	_, err := root.Scalar(SharedObjectsNS, "NoSuchField")
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FieldError, got %T: %v", err, err)
	}
	if fe.Name != "NoSuchField" {
		t.Errorf("FieldError.Name = %q", fe.Name)
	}
}

func TestScalarIgnoresForeignNamespace(t *testing.T) {
	root := mustParse(t).Root()
	// SpotIndex exists in both the shared-objects namespace and a foreign
	// one; the foreign copy must never be matched.
	v, err := root.Scalar(SharedObjectsNS, "SpotIndex")
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if v != "5" {
		t.Errorf("SpotIndex = %q, want 5", v)
	}
	if _, err := root.Scalar("urn:elsewhere", "SpotIndex"); err == nil {
		t.Error("expected miss when namespace does not match")
	}
}

func TestSubtreeNestedLookup(t *testing.T) {
	root := mustParse(t).Root()
	ps, err := root.Subtree(SharedObjectsNS, "pixelSize")
	if err != nil {
		t.Fatalf("pixelSize subtree: %v", err)
	}
	x, err := ps.Subtree(SharedObjectsNS, "x")
	if err != nil {
		t.Fatalf("x subtree: %v", err)
	}
	v, err := x.Scalar(SharedObjectsNS, "numericValue")
	if err != nil {
		t.Fatalf("numericValue: %v", err)
	}
	if v != "1.05E-10" {
		t.Errorf("numericValue = %q", v)
	}
}

func TestSubtreeMissing(t *testing.T) {
	root := mustParse(t).Root()
	if _, err := root.Subtree(SharedObjectsNS, "stagePosition"); err == nil {
		t.Fatal("expected error for missing subtree")
	}
}

func TestPairFound(t *testing.T) {
	root := mustParse(t).Root()
	if v := root.Pair(ArraysNS, "AppliedDefocus"); v != "-1.2E-06" {
		t.Errorf("AppliedDefocus = %q", v)
	}
	if v := root.Pair(ArraysNS, "Aperture[C2].Name"); v != "50" {
		t.Errorf("Aperture[C2].Name = %q", v)
	}
}

func TestPairAbsentIsSentinel(t *testing.T) {
	root := mustParse(t).Root()
	if v := root.Pair(ArraysNS, "Aperture[C1].Name"); v != NotRecorded {
		t.Errorf("absent key = %q, want %q", v, NotRecorded)
	}
}

func TestPairExactKeyMatch(t *testing.T) {
	root := mustParse(t).Root()
	// Substrings and prefixes of a recorded key must not match.
	if v := root.Pair(ArraysNS, "AppliedDefocu"); v != NotRecorded {
		t.Errorf("prefix key matched: %q", v)
	}
	if v := root.Pair(ArraysNS, "Aperture[C2]"); v != NotRecorded {
		t.Errorf("truncated key matched: %q", v)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseString("<unclosed"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := ParseString(""); err == nil {
		t.Error("expected error for empty document")
	}
}
