package solve

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestCoinOrder(t *testing.T) {
	names, ok := CoinOrder()
	if !ok {
		t.Fatal("CoinOrder found no arrangement")
	}
	want := []string{"blue coin", "red coin", "shiny coin", "concave coin", "corroded coin"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("CoinOrder = %v, want %v", names, want)
	}
	// Each name is the complete noun a "use <name>" command takes.
	for _, name := range names {
		if !strings.HasSuffix(name, " coin") {
			t.Errorf("name %q does not name a coin", name)
		}
	}
}

func TestFindPermutationVisitsAll(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	seen := make(map[[4]int]bool)
	ok := findPermutation(arr, func(p []int) bool {
		var key [4]int
		copy(key[:], p)
		seen[key] = true
		return false
	})
	if ok {
		t.Error("findPermutation = true, want false with an all-rejecting predicate")
	}
	if len(seen) != 24 {
		t.Errorf("visited %d permutations, want 24", len(seen))
	}
}

func TestFindPermutationStopsAtMatch(t *testing.T) {
	arr := []int{3, 1, 2}
	calls := 0
	ok := findPermutation(arr, func(p []int) bool {
		calls++
		return sort.IntsAreSorted(p)
	})
	if !ok {
		t.Fatal("findPermutation found no sorted permutation")
	}
	if !sort.IntsAreSorted(arr) {
		t.Errorf("arr = %v, want sorted: the matching permutation must be left in place", arr)
	}
	if calls > 6 {
		t.Errorf("predicate called %d times, want at most 6", calls)
	}
}
