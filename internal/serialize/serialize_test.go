package serialize

import (
	"strconv"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTrip(t *testing.T) {
	var backend JSON[doc]
	want := doc{Name: "config", Count: 3}

	data, err := backend.Serialize(want)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := backend.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

type intStringer int

func (i intStringer) String() string { return strconv.Itoa(int(i)) }

func TestEmitParseListRoundTrip(t *testing.T) {
	if _, ok := EmitList[intStringer](nil); ok {
		t.Errorf("expected EmitList of an empty slice to report ok=false")
	}

	items := []intStringer{1, 42, 37}
	s, ok := EmitList(items)
	if !ok {
		t.Fatalf("expected ok=true for a non-empty list")
	}
	if want := "1|42|37"; s != want {
		t.Errorf("got %q, want %q", s, want)
	}

	parsed, err := ParseList(s, func(p string) (intStringer, error) {
		n, err := strconv.Atoi(p)
		return intStringer(n), err
	})
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(parsed) != len(items) {
		t.Fatalf("got %v, want %v", parsed, items)
	}
	for i := range items {
		if parsed[i] != items[i] {
			t.Errorf("got %v, want %v", parsed, items)
		}
	}
}
