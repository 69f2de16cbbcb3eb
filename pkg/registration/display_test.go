package registration

import "testing"

func TestDerive_MatchesSelectedCountry(t *testing.T) {
	got := Derive(testCountries, "United States")
	if got.DialCode != "+1201" || got.Flag != "https://flagcdn.com/us.svg" {
		t.Fatalf("unexpected display %#v", got)
	}
}

func TestDerive_UnknownSelectionIsEmpty(t *testing.T) {
	for _, selected := range []string{"", "Select Country", "Atlantis", "peru"} {
		if got := Derive(testCountries, selected); !got.Empty() {
			t.Fatalf("%q: expected empty display, got %#v", selected, got)
		}
	}
}

func TestDerive_EmptyWhileLoading(t *testing.T) {
	if got := Derive(nil, "Peru"); !got.Empty() {
		t.Fatalf("expected empty display without options, got %#v", got)
	}
}

func TestDerive_Idempotent(t *testing.T) {
	first := Derive(testCountries, "Peru")
	second := Derive(testCountries, "Peru")
	if first != second {
		t.Fatalf("expected identical results, got %#v and %#v", first, second)
	}
}
