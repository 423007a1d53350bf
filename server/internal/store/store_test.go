package store

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func ids(snips []Snippet) []int64 {
	out := make([]int64, 0, len(snips))
	for _, sn := range snips {
		out = append(out, sn.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewSeeded_HasEightSnippets(t *testing.T) {
	st := NewSeeded()
	if st.Count() != 8 {
		t.Fatalf("Count: got %d, want 8", st.Count())
	}
	if st.LastID() != 8 {
		t.Errorf("LastID: got %d, want 8", st.LastID())
	}
	got := ids(st.List(""))
	if !equalIDs(got, []int64{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("List ids: got %v", got)
	}
}

func TestNew_RejectsBadSeed(t *testing.T) {
	if _, err := New(Snippet{ID: 0, Language: "Go", Code: "x"}); err == nil {
		t.Error("New with id 0: expected error")
	}
	if _, err := New(
		Snippet{ID: 3, Language: "Go", Code: "x"},
		Snippet{ID: 3, Language: "Go", Code: "y"},
	); err == nil {
		t.Error("New with duplicate ids: expected error")
	}
}

func TestNew_UnorderedSeedStartsAboveMax(t *testing.T) {
	st, err := New(
		Snippet{ID: 5, Language: "Go", Code: "b"},
		Snippet{ID: 2, Language: "Go", Code: "a"},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sn, err := st.Create("Go", "c")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sn.ID != 6 {
		t.Errorf("ID: got %d, want 6", sn.ID)
	}
}

func TestCreate_IDsStrictlyIncreasing(t *testing.T) {
	st := NewSeeded()
	prev := st.LastID()
	for i := 0; i < 20; i++ {
		sn, err := st.Create("Go", "fmt.Println(1)")
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if sn.ID <= prev {
			t.Fatalf("Create #%d: id %d not greater than %d", i, sn.ID, prev)
		}
		prev = sn.ID
	}
}

func TestCreate_ThenGet(t *testing.T) {
	st := NewSeeded()
	created, err := st.Create("Rust", "fn main() {}")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := st.Get(created.ID)
	if err != nil {
		t.Fatalf("Get(%d): %v", created.ID, err)
	}
	if got != created {
		t.Errorf("Get: got %+v, want %+v", got, created)
	}
}

func TestGet_Missing(t *testing.T) {
	st := NewSeeded()
	for _, id := range []int64{0, -1, 9, 1000} {
		_, err := st.Get(id)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%d): got %v, want ErrNotFound", id, err)
		}
	}
}

func TestCreate_InvalidInputLeavesStateUnchanged(t *testing.T) {
	st := NewSeeded()
	cases := []struct{ lang, code string }{
		{"", "x"},
		{"x", ""},
		{"", ""},
	}
	for _, c := range cases {
		_, err := st.Create(c.lang, c.code)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Create(%q, %q): got %v, want ErrInvalidInput", c.lang, c.code, err)
		}
	}
	if st.LastID() != 8 {
		t.Errorf("LastID after rejected creates: got %d, want 8", st.LastID())
	}
	if st.Count() != 8 {
		t.Errorf("Count after rejected creates: got %d, want 8", st.Count())
	}

	sn, err := st.Create("Go", "x")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sn.ID != 9 {
		t.Errorf("next id: got %d, want 9", sn.ID)
	}
}

func TestList_AllMatchesCreated(t *testing.T) {
	st := NewSeeded()
	want := map[int64]Snippet{}
	for _, sn := range Seed() {
		want[sn.ID] = sn
	}
	for _, lang := range []string{"Go", "Rust", "Go"} {
		sn, err := st.Create(lang, "code")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		want[sn.ID] = sn
	}

	got := st.List("")
	if len(got) != len(want) {
		t.Fatalf("List: got %d snippets, want %d", len(got), len(want))
	}
	for _, sn := range got {
		if want[sn.ID] != sn {
			t.Errorf("List: unexpected snippet %+v", sn)
		}
	}
}

func TestList_CaseInsensitiveFilter(t *testing.T) {
	st := NewSeeded()
	for _, lang := range []string{"python", "Python", "PYTHON"} {
		got := ids(st.List(lang))
		if !equalIDs(got, []int64{1, 2, 3}) {
			t.Errorf("List(%q): got %v, want [1 2 3]", lang, got)
		}
	}
}

func TestList_NoMatchIsEmptyNotNil(t *testing.T) {
	st := NewSeeded()
	got := st.List("cobol")
	if got == nil || len(got) != 0 {
		t.Errorf("List(cobol): got %#v, want empty slice", got)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	st := NewSeeded()
	got := st.List("")
	got[0].Code = "mutated"
	sn, _ := st.Get(got[0].ID)
	if sn.Code == "mutated" {
		t.Error("List result aliases store contents")
	}
}

func TestCreate_ConcurrentDistinctIDs(t *testing.T) {
	const n = 200
	st := NewSeeded()

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sn, err := st.Create("Go", "go func() {}()")
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			results <- sn.ID
		}()
	}
	// Readers running alongside writers must never see a partial snippet.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, sn := range st.List("go") {
				if sn.ID == 0 || sn.Code == "" {
					t.Errorf("List observed incomplete snippet %+v", sn)
				}
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for id := range results {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d ids, want %d", len(seen), n)
	}
	for id := int64(9); id < 9+n; id++ {
		if !seen[id] {
			t.Errorf("id %d missing: ids must be gap-free", id)
		}
	}
	if st.LastID() != 8+n {
		t.Errorf("LastID: got %d, want %d", st.LastID(), 8+n)
	}
}

func TestOnCreate_CalledAfterCreate(t *testing.T) {
	st := NewSeeded()
	var got []Snippet
	st.OnCreate(func(sn Snippet) {
		// Store must be readable from inside the callback.
		if _, err := st.Get(sn.ID); err != nil {
			t.Errorf("Get inside observer: %v", err)
		}
		got = append(got, sn)
	})

	if _, err := st.Create("", "x"); err == nil {
		t.Fatal("expected error for empty language")
	}
	sn, err := st.Create("Go", "x")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(got) != 1 || got[0] != sn {
		t.Errorf("observer calls: got %+v, want [%+v]", got, sn)
	}
}

func TestEndToEnd_SeedCreateGetFilter(t *testing.T) {
	st := NewSeeded()
	if n := len(st.List("")); n != 8 {
		t.Fatalf("List: got %d, want 8", n)
	}
	sn, err := st.Create("Go", `fmt.Println("hi")`)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sn.ID != 9 {
		t.Fatalf("ID: got %d, want 9", sn.ID)
	}
	got, err := st.Get(9)
	if err != nil || got != sn {
		t.Fatalf("Get(9): got %+v, %v", got, err)
	}
	goSnips := st.List("Go")
	if len(goSnips) != 1 || goSnips[0].ID != 9 {
		t.Errorf("List(Go): got %+v, want only id 9", goSnips)
	}
}
