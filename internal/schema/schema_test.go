package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRequire(t *testing.T) {
	f := Fields{"id": int64(1), "x": 2.0}
	if err := f.Require("id", "x"); err != nil {
		t.Errorf("Require on present fields returned error: %v", err)
	}

	err := f.Require("id", "y")
	if err == nil {
		t.Fatal("Require on absent field succeeded, want error")
	}
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %T", err)
	}
	if missing.Field != "y" {
		t.Errorf("MissingFieldError.Field = %q, want %q", missing.Field, "y")
	}
}

func TestNames(t *testing.T) {
	f := Fields{"z": 1, "a": 2, "m": 3}
	if diff := cmp.Diff([]string{"a", "m", "z"}, f.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestInt(t *testing.T) {
	f := Fields{"a": int64(7), "b": 7, "c": "seven"}
	if v, err := f.Int("a"); err != nil || v != 7 {
		t.Errorf("Int(a) = %d, %v; want 7, nil", v, err)
	}
	if v, err := f.Int("b"); err != nil || v != 7 {
		t.Errorf("Int(b) = %d, %v; want 7, nil", v, err)
	}
	if _, err := f.Int("c"); err == nil {
		t.Error("Int on string value succeeded, want ValidationError")
	}
	if _, err := f.Int("missing"); err == nil {
		t.Error("Int on absent key succeeded, want MissingFieldError")
	}
}

func TestNonNegInt(t *testing.T) {
	f := Fields{"ok": int64(0), "neg": int64(-1)}
	if _, err := f.NonNegInt("ok"); err != nil {
		t.Errorf("NonNegInt(0) returned error: %v", err)
	}
	_, err := f.NonNegInt("neg")
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("NonNegInt(-1): want ValidationError, got %v", err)
	}
	if invalid.Field != "neg" {
		t.Errorf("ValidationError.Field = %q, want %q", invalid.Field, "neg")
	}
}

func TestOptionalFloat(t *testing.T) {
	v := 3.5
	f := Fields{"ptr": &v, "plain": 2.5, "absent": nil, "bad": "x"}

	got, err := f.OptionalFloat("ptr")
	if err != nil || got == nil || *got != 3.5 {
		t.Errorf("OptionalFloat(ptr) = %v, %v; want 3.5", got, err)
	}
	got, err = f.OptionalFloat("plain")
	if err != nil || got == nil || *got != 2.5 {
		t.Errorf("OptionalFloat(plain) = %v, %v; want 2.5", got, err)
	}
	got, err = f.OptionalFloat("absent")
	if err != nil || got != nil {
		t.Errorf("OptionalFloat(absent) = %v, %v; want nil, nil", got, err)
	}
	if _, err := f.OptionalFloat("bad"); err == nil {
		t.Error("OptionalFloat on string value succeeded, want error")
	}
	// The key itself must be declared even when nilable.
	if _, err := f.OptionalFloat("undeclared"); err == nil {
		t.Error("OptionalFloat on undeclared key succeeded, want MissingFieldError")
	}
}

func TestValue(t *testing.T) {
	f := Fields{"ids": []int64{1, 2}, "name": "x"}
	ids, err := Value[[]int64](f, "ids")
	if err != nil {
		t.Fatalf("Value[[]int64]: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 2}, ids); diff != "" {
		t.Errorf("Value mismatch (-want +got):\n%s", diff)
	}
	if _, err := Value[int](f, "name"); err == nil {
		t.Error("Value with mismatched type succeeded, want error")
	}
	if _, err := Value[string](f, "missing"); err == nil {
		t.Error("Value on absent key succeeded, want error")
	}
}

func TestNilableValue(t *testing.T) {
	f := Fields{"set": "hello", "unset": nil}
	v, ok, err := NilableValue[string](f, "set")
	if err != nil || !ok || v != "hello" {
		t.Errorf("NilableValue(set) = %q, %v, %v; want hello, true, nil", v, ok, err)
	}
	v, ok, err = NilableValue[string](f, "unset")
	if err != nil || ok || v != "" {
		t.Errorf("NilableValue(unset) = %q, %v, %v; want zero, false, nil", v, ok, err)
	}
	if _, _, err := NilableValue[string](f, "missing"); err == nil {
		t.Error("NilableValue on absent key succeeded, want error")
	}
}

func TestIDList(t *testing.T) {
	f := Fields{"ok": []int64{3, 1}, "neg": []int64{1, -2}}
	ids, err := f.IDList("ok")
	if err != nil {
		t.Fatalf("IDList(ok): %v", err)
	}
	if diff := cmp.Diff([]int64{3, 1}, ids); diff != "" {
		t.Errorf("IDList mismatch (-want +got):\n%s", diff)
	}
	if _, err := f.IDList("neg"); err == nil {
		t.Error("IDList with negative id succeeded, want error")
	}
}

func TestErrorMessages(t *testing.T) {
	err := Invalid("speed", "must be positive, got %d", -4)
	if got, want := err.Error(), `invalid field "speed": must be positive, got -4`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	missing := &MissingFieldError{Field: "left"}
	if got, want := missing.Error(), `missing field "left"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
