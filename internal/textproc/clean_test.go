package textproc

import "testing"

func TestRemoveJunk(t *testing.T) {
	in := "Hola a todos\nSubtítulos realizados por la comunidad de Amara.org\n\nSeguimos con la clase"
	want := "Hola a todos\nSeguimos con la clase"
	if got := RemoveJunk(in); got != want {
		t.Fatalf("RemoveJunk:\n got %q\nwant %q", got, want)
	}
}

func TestDedupeLines(t *testing.T) {
	in := "uno\nuno\nUno \ndos\nuno"
	want := "uno\ndos\nuno"
	if got := DedupeLines(in); got != want {
		t.Fatalf("DedupeLines:\n got %q\nwant %q", got, want)
	}
}

func TestCollapseThreshold(t *testing.T) {
	// Two repeats are a legitimate echo and stay untouched.
	if got := CollapseRepeats("hola hola"); got != "hola hola" {
		t.Fatalf("two repeats changed: %q", got)
	}
	if got := CollapseRepeats("hola hola hola"); got != "hola" {
		t.Fatalf("three repeats not collapsed: %q", got)
	}
	if got := CollapseRepeats("hola hola hola hola hola"); got != "hola" {
		t.Fatalf("long run not collapsed: %q", got)
	}
}

func TestCollapseCommaSeparatedAndCase(t *testing.T) {
	if got := CollapseRepeats("Bortilla, Bortilla, Bortilla."); got != "Bortilla." {
		t.Fatalf("comma run: %q", got)
	}
	if got := CollapseRepeats("Si, si, SI, claro"); got != "Si, claro" {
		t.Fatalf("mixed case run: %q", got)
	}
	// A different separator breaks the run.
	if got := CollapseRepeats("no. no no"); got != "no. no no" {
		t.Fatalf("period-broken run changed: %q", got)
	}
}

func TestCollapsePreservesSurroundingText(t *testing.T) {
	in := "y entonces dijo hola hola hola y se fue"
	want := "y entonces dijo hola y se fue"
	if got := CollapseRepeats(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFixPunctuation(t *testing.T) {
	cases := []struct{ in, want string }{
		{"hola , mundo", "hola, mundo"},
		{"hola,mundo", "hola, mundo"},
		{"frase final .", "frase final."},
		{"uno ; dos : tres", "uno; dos: tres"},
		{"espera ...", "espera..."},
		{"¿qué tal ?", "¿qué tal?"},
	}
	for _, tc := range cases {
		if got := FixPunctuation(tc.in); got != tc.want {
			t.Fatalf("FixPunctuation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTransformsAreIdempotent(t *testing.T) {
	samples := []string{
		"uno\nuno\ndos dos dos\nhola , hola ,hola",
		"Subtitles by Amara.org community\ngracias gracias gracias",
		"texto normal sin nada raro.",
		"a a\nb b b\nc, c, c, c .",
	}
	transforms := map[string]func(string) string{
		"RemoveJunk":      RemoveJunk,
		"DedupeLines":     DedupeLines,
		"CollapseRepeats": CollapseRepeats,
		"FixPunctuation":  FixPunctuation,
		"Clean":           Clean,
	}
	for name, fn := range transforms {
		for _, sample := range samples {
			once := fn(sample)
			twice := fn(once)
			if once != twice {
				t.Fatalf("%s not idempotent:\n once %q\ntwice %q", name, once, twice)
			}
		}
	}
}

func TestCleanChain(t *testing.T) {
	in := "Hola a todos\nHola a todos\nSubtitles by Amara.org community\ngracias gracias gracias por venir ."
	want := "Hola a todos\ngracias por venir."
	if got := Clean(in); got != want {
		t.Fatalf("Clean:\n got %q\nwant %q", got, want)
	}
}
