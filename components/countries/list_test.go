package countries

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDialCode_RootOnlyWithoutSuffixes(t *testing.T) {
	cases := []struct {
		root     string
		suffixes []string
	}{
		{root: "+1", suffixes: nil},
		{root: "+7", suffixes: []string{}},
		{root: "", suffixes: nil},
	}
	for _, tc := range cases {
		if got := DialCode(tc.root, tc.suffixes); got != tc.root {
			t.Fatalf("DialCode(%q, %v) = %q, want %q", tc.root, tc.suffixes, got, tc.root)
		}
	}
}

func TestDialCode_UsesFirstSuffixOnly(t *testing.T) {
	got := DialCode("+1", []string{"201", "202", "203"})
	if got != "+1201" {
		t.Fatalf("expected +1201, got %q", got)
	}
	if got := DialCode("+4", []string{"4"}); got != "+44" {
		t.Fatalf("expected +44, got %q", got)
	}
}

func TestDecode_MapsRecordsInOrder(t *testing.T) {
	payload := `[
  {"flags":{"svg":"https://flagcdn.com/gb.svg"},"name":{"common":"United Kingdom"},"cca2":"GB","idd":{"root":"+4","suffixes":["4"]}},
  {"flags":{"svg":"https://flagcdn.com/aq.svg"},"name":{"common":"Antarctica"},"cca2":"AQ","idd":{}},
  {"flags":{"svg":"https://flagcdn.com/us.svg"},"name":{"common":"United States"},"cca2":"US","idd":{"root":"+1","suffixes":["201","202"]}}
]`

	got, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []Country{
		{Name: "United Kingdom", Code: "GB", Flag: "https://flagcdn.com/gb.svg", DialCode: "+44"},
		{Name: "Antarctica", Code: "AQ", Flag: "https://flagcdn.com/aq.svg", DialCode: ""},
		{Name: "United States", Code: "US", Flag: "https://flagcdn.com/us.svg", DialCode: "+1201"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded countries mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_SkipsDuplicateCodes(t *testing.T) {
	payload := `[
  {"name":{"common":"France"},"cca2":"FR","idd":{"root":"+3","suffixes":["3"]}},
  {"name":{"common":"France again"},"cca2":"fr","idd":{"root":"+3","suffixes":["3"]}}
]`

	got, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].Name != "France" {
		t.Fatalf("expected first France only, got %#v", got)
	}
}

func TestDecode_RejectsMalformedPayload(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"message":"not found"}`)); err == nil {
		t.Fatalf("expected error for non-array payload")
	}
	if _, err := Decode(nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

func TestFromRecord_SanitizesNameAndFlag(t *testing.T) {
	var rec Record
	rec.Name.Common = `<b>Côte d'Ivoire</b><script>alert(1)</script>`
	rec.CCA2 = "ci"
	rec.Flags.SVG = "javascript:alert(1)"
	rec.IDD.Root = "+2"
	rec.IDD.Suffixes = []string{"25"}

	got := FromRecord(rec)
	want := Country{Name: "Côte d'Ivoire", Code: "CI", Flag: "", DialCode: "+225"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitized country mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_ExactNameMatch(t *testing.T) {
	list := []Country{
		{Name: "Chad", Code: "TD"},
		{Name: "Chile", Code: "CL"},
	}
	if got, ok := Find(list, "Chile"); !ok || got.Code != "CL" {
		t.Fatalf("expected Chile, got %#v (ok=%v)", got, ok)
	}
	if _, ok := Find(list, "chile"); ok {
		t.Fatalf("expected case-sensitive match")
	}
	if _, ok := Find(list, ""); ok {
		t.Fatalf("expected empty selection to miss")
	}
}

func TestCountryLabel_IncludesCode(t *testing.T) {
	if got := (Country{Name: "Peru", Code: "PE"}).Label(); got != "Peru (PE)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := (Country{Name: "Nowhere"}).Label(); got != "Nowhere" {
		t.Fatalf("unexpected label %q", got)
	}
}
