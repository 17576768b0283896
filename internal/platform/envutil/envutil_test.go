package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int=%d want 42", got)
	}
	t.Setenv("ENVUTIL_INT", "nope")
	if got := Int("ENVUTIL_INT", 1); got != 1 {
		t.Fatalf("Int=%d want default", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"on": true, "TRUE": true, "0": false, "off": false, "maybe": true, "": true}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_BOOL", raw)
		if got := Bool("ENVUTIL_BOOL", true); got != want {
			t.Fatalf("Bool(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestMillis(t *testing.T) {
	t.Setenv("ENVUTIL_MS", "1500")
	if got := Millis("ENVUTIL_MS", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("Millis=%s", got)
	}
	t.Setenv("ENVUTIL_MS", "-3")
	if got := Millis("ENVUTIL_MS", time.Second); got != time.Second {
		t.Fatalf("Millis=%s want default", got)
	}
}
