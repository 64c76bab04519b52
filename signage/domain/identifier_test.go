package domain

import (
	"strings"
	"testing"
)

func TestImageID_Deterministic(t *testing.T) {
	first := ImageID("Summer Promo", "aGVsbG8gd29ybGQ=")
	second := ImageID("Summer Promo", "aGVsbG8gd29ybGQ=")

	if first != second {
		t.Errorf("Same input produced different ids: %q and %q", first, second)
	}
	if first == "" {
		t.Error("ImageID returned an empty id")
	}
}

func TestImageID_DistinctInputsDiffer(t *testing.T) {
	base := ImageID("promo", "aGVsbG8=")

	if got := ImageID("other", "aGVsbG8="); got == base {
		t.Error("Different names produced the same id")
	}
	if got := ImageID("promo", "d29ybGQ="); got == base {
		t.Error("Different images produced the same id")
	}
}

func TestImageID_SeedUsesImagePrefix(t *testing.T) {
	prefix := strings.Repeat("A", idSeedPrefixLen)

	// Content past the seed prefix does not affect the id
	same := ImageID("promo", prefix+"tail-one")
	if got := ImageID("promo", prefix+"tail-two"); got != same {
		t.Error("Content past the seed prefix changed the id")
	}

	// Content inside the prefix does
	altered := strings.Repeat("A", idSeedPrefixLen-1) + "B"
	if got := ImageID("promo", altered+"tail-one"); got == same {
		t.Error("Content inside the seed prefix did not change the id")
	}
}

func TestImageID_ShortImage(t *testing.T) {
	if got := ImageID("promo", "tiny"); got == "" {
		t.Error("ImageID failed on input shorter than the seed prefix")
	}
}
