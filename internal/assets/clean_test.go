package assets

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Please generate a demo video regarding EVE", "eve"},
		{"generate a video about snortml", "snortml"},
		{"find me a demo video for rapid threat containment", "rapid threat containment"},
		{"show me hypershield", "hypershield"},
		{"can you give me a video about aiops", "aiops"},
		{"i want a demo video for secure firewall", "secure firewall"},
		{"hypershield demo video", "hypershield"},
		{"EVE", "eve"},
		{"what's new in sgt?", "what s new in sgt"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestQueryTerms(t *testing.T) {
	got := queryTerms("rapid threat containment")
	want := []string{"rapid", "threat", "containment"}
	if len(got) != len(want) {
		t.Fatalf("terms: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("terms[%d]: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestQueryTermsShortQuerySurvives(t *testing.T) {
	got := queryTerms("ml")
	if len(got) != 1 || got[0] != "ml" {
		t.Fatalf("short query must survive as a single term: got=%v", got)
	}
}
