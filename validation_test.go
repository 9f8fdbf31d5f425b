package netsim

import (
	"errors"
	"testing"
)

func TestValidatorAccumulatesAndPops(t *testing.T) {
	var v Validator
	if v.HasError() {
		t.Fatal("fresh validator must not report an error")
	}
	if err := v.ErrPop(); err != nil {
		t.Fatalf("fresh validator must pop nil, got %v", err)
	}

	v.AddError(nil)
	if v.HasError() {
		t.Fatal("AddError(nil) must not count as an error")
	}

	errA := &InvalidBytesError{Msg: "a"}
	v.AddError(errA)
	if !v.HasError() {
		t.Fatal("expected HasError true after AddError")
	}
	if got := v.ErrPop(); !errors.Is(got, errA) {
		t.Fatalf("expected single error %v, got %v", errA, got)
	}
	if v.HasError() {
		t.Fatal("ErrPop must clear the accumulator")
	}

	errB := &InvalidBytesError{Msg: "b"}
	v.AddError(errA)
	v.AddError(errB)
	joined := v.ErrPop()
	if !errors.Is(joined, errA) || !errors.Is(joined, errB) {
		t.Fatalf("expected joined error to wrap both, got %v", joined)
	}
}
