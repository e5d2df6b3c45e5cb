package channels

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"distinct", []string{"Phase", "mCherry", "GFP"}, []string{"Phase", "mCherry", "GFP"}},
		{"repeat", []string{"Phase", "GFP", "Phase"}, []string{"Phase", "GFP", "Phase_after"}},
		{"third use", []string{"Phase", "Phase", "Phase"}, []string{"Phase", "Phase_after", "Phase_after2"}},
		{"fourth use", []string{"GFP", "GFP", "GFP", "GFP"}, []string{"GFP", "GFP_after", "GFP_after2", "GFP_after3"}},
		{"suffixed raw name", []string{"Phase_after", "Phase", "Phase"}, []string{"Phase_after", "Phase", "Phase_after2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Name(len(tc.raw), FromSlice(tc.raw), DefaultRepeatSuffix)
			if err != nil {
				t.Fatalf("Name returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Name(%v) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func TestNameUnique(t *testing.T) {
	raw := []string{"A", "B", "A", "B", "A", "A_after", "B_after", "A"}
	got, err := Name(len(raw), FromSlice(raw), "")
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if len(got) != len(raw) {
		t.Fatalf("Expected %d names, got %d", len(raw), len(got))
	}
	seen := map[string]bool{}
	for _, n := range got {
		if seen[n] {
			t.Errorf("Duplicate channel name %q in %v", n, got)
		}
		seen[n] = true
	}
}

func TestNameCustomSuffix(t *testing.T) {
	got, err := Name(2, FromSlice([]string{"DAPI", "DAPI"}), "_post")
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"DAPI", "DAPI_post"}, got); diff != "" {
		t.Errorf("Name mismatch (-want +got):\n%s", diff)
	}
}

func TestNameLookupError(t *testing.T) {
	errBoom := errors.New("boom")
	_, err := Name(2, func(i int) (string, error) {
		if i == 1 {
			return "", errBoom
		}
		return "Phase", nil
	}, "")
	if !errors.Is(err, errBoom) {
		t.Errorf("Expected lookup error to be wrapped, got %v", err)
	}
}
