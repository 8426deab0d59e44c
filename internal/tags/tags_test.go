package tags

import (
	"reflect"
	"testing"
)

func TestDecode_PartitionsByPrefix(t *testing.T) {
	flat := []string{
		"thinking",
		"domain:psychology",
		"framework:first-principles",
		"application:negotiation",
		"judgment",
		"domain:economics",
	}

	d := Decode(flat)

	if !reflect.DeepEqual(d.Base, []string{"thinking", "judgment"}) {
		t.Fatalf("unexpected base tags: %v", d.Base)
	}
	if !reflect.DeepEqual(d.Domains, []string{"psychology", "economics"}) {
		t.Fatalf("unexpected domains: %v", d.Domains)
	}
	if !reflect.DeepEqual(d.Frameworks, []string{"first-principles"}) {
		t.Fatalf("unexpected frameworks: %v", d.Frameworks)
	}
	if !reflect.DeepEqual(d.Applications, []string{"negotiation"}) {
		t.Fatalf("unexpected applications: %v", d.Applications)
	}
}

func TestDecode_SkipsBlanks(t *testing.T) {
	d := Decode([]string{"", "  ", "real"})
	if !reflect.DeepEqual(d.Base, []string{"real"}) {
		t.Fatalf("expected only the real tag, got %v", d.Base)
	}
}

func TestEncode_FixedOrder(t *testing.T) {
	flat := Encode(
		[]string{"thinking"},
		[]string{"psychology"},
		[]string{"first-principles"},
		[]string{"negotiation"},
	)

	want := []string{
		"thinking",
		"domain:psychology",
		"framework:first-principles",
		"application:negotiation",
	}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("expected %v, got %v", want, flat)
	}
}

func TestEncode_TrimsAndDropsEmpties(t *testing.T) {
	flat := Encode(
		[]string{" thinking ", ""},
		[]string{"  "},
		nil,
		[]string{"negotiation "},
	)

	want := []string{"thinking", "application:negotiation"}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("expected %v, got %v", want, flat)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	base := []string{"thinking", "judgment"}
	domains := []string{"psychology"}
	frameworks := []string{"first-principles", "inversion"}
	applications := []string{"negotiation"}

	d := Decode(Encode(base, domains, frameworks, applications))

	if !reflect.DeepEqual(d.Base, base) {
		t.Fatalf("base tags changed in round trip: %v", d.Base)
	}
	if !reflect.DeepEqual(d.Domains, domains) {
		t.Fatalf("domains changed in round trip: %v", d.Domains)
	}
	if !reflect.DeepEqual(d.Frameworks, frameworks) {
		t.Fatalf("frameworks changed in round trip: %v", d.Frameworks)
	}
	if !reflect.DeepEqual(d.Applications, applications) {
		t.Fatalf("applications changed in round trip: %v", d.Applications)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a, b ,, c ,")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitList_Empty(t *testing.T) {
	if got := SplitList("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("first question\n\n  second question  \n")
	want := []string{"first question", "second question"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestJoinInverses(t *testing.T) {
	list := []string{"a", "b", "c"}
	if got := SplitList(Join(list)); !reflect.DeepEqual(got, list) {
		t.Fatalf("Join/SplitList not inverse: %v", got)
	}
	if got := SplitLines(JoinLines(list)); !reflect.DeepEqual(got, list) {
		t.Fatalf("JoinLines/SplitLines not inverse: %v", got)
	}
}
