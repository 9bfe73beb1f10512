package budget

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("simple object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"b":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // assess that a zero value is actually added.
		w.Optional("b", "")
		w.Optional("c", AccountKey(""))
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error sticks", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", make(chan int))
		w.Append("b", 2)
		if _, err := w.MarshalJSON(); err == nil {
			t.Errorf("expected an error for an unsupported value")
		}
	})

	t.Run("nested", func(t *testing.T) {
		var inner, w jsonObjectWriter
		inner.Append("x", INR(12.5))
		w.Append("inner", &inner)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"inner":{"x":12.5}}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestOrderedObject(t *testing.T) {
	values := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	keys := []string{"zeta", "alpha", "mid"}
	got, err := orderedObject(keys, func(k string) int { return values[k] })
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"zeta":1,"alpha":2,"mid":3}`; string(got) != want {
		t.Errorf("orderedObject() = %s, want %s", got, want)
	}

	back, err := objectKeys(json.RawMessage(got))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(back, keys) {
		t.Errorf("objectKeys() = %v, want %v", back, keys)
	}

	for _, raw := range []string{"", "null", " "} {
		if keys, err := objectKeys(json.RawMessage(raw)); err != nil || keys != nil {
			t.Errorf("objectKeys(%q) = %v, %v, want nil, nil", raw, keys, err)
		}
	}
	if _, err := objectKeys(json.RawMessage(`[1,2]`)); err == nil {
		t.Errorf("objectKeys() of an array: expected an error")
	}
}
