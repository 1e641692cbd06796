package commands

import (
	"testing"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.HasLetter {
		t.Error("expected HasLetter to be false")
	}
	if ref.TaskNum != 5 || ref.Args != 1 {
		t.Errorf("expected TaskNum 5 consuming 1 arg, got %+v", ref)
	}
}

func TestParseTaskRef_CombinedRef(t *testing.T) {
	ref, err := ParseTaskRef([]string{"a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.HasLetter {
		t.Error("expected HasLetter to be true")
	}
	if ref.Letter != 'a' {
		t.Errorf("expected Letter 'a', got %c", ref.Letter)
	}
	if ref.TaskNum != 1 {
		t.Errorf("expected TaskNum 1, got %d", ref.TaskNum)
	}
}

func TestParseTaskRef_CombinedRefMultiDigit(t *testing.T) {
	ref, err := ParseTaskRef([]string{"b12", "extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Letter != 'b' || ref.TaskNum != 12 || ref.Args != 1 {
		t.Errorf("expected b12 consuming 1 arg, got %+v", ref)
	}
}

func TestParseTaskRef_SeparatedRef(t *testing.T) {
	ref, err := ParseTaskRef([]string{"c", "3", "title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Letter != 'c' || ref.TaskNum != 3 || ref.Args != 2 {
		t.Errorf("expected c3 consuming 2 args, got %+v", ref)
	}
	if ref.String() != "c3" {
		t.Errorf("expected c3, got %q", ref.String())
	}
}

func TestParseTaskRef_LetterThenWord_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for letter followed by a word")
	}
	expectedMsg := "invalid task reference: a"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_LetterOnly_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"a"})
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{})
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_RawID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5f2c-91ab"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "5f2c-91ab" || ref.HasLetter || ref.TaskNum != 0 {
		t.Errorf("expected raw id, got %+v", ref)
	}
}

func TestParseTaskRef_HashForcesID(t *testing.T) {
	for _, tc := range []struct{ arg, id string }{
		{"#42", "42"},
		{"#a1", "a1"},
	} {
		ref, err := ParseTaskRef([]string{tc.arg})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.arg, err)
		}
		if ref.ID != tc.id {
			t.Errorf("%s: expected id %q, got %+v", tc.arg, tc.id, ref)
		}
	}

	if _, err := ParseTaskRef([]string{"#"}); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired for bare #, got %v", err)
	}
}

func TestLetterFor(t *testing.T) {
	if letterFor(0) != 'a' || letterFor(25) != 'z' {
		t.Error("expected a..z")
	}
	if letterFor(26) != 0 || letterFor(-1) != 0 {
		t.Error("expected 0 outside a..z")
	}
}
