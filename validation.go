package netsim

import "errors"

// Validator accumulates decode-time errors so a codec's Decode function can
// run several independent checks before the caller decides what to do,
// mirroring the teacher's lneto.Validator.
type Validator struct {
	accum []error
}

// AddError appends a non-nil error to the accumulator.
func (v *Validator) AddError(err error) {
	if err != nil {
		v.accum = append(v.accum, err)
	}
}

// CheckSize returns ErrNotEnoughBytes if have is shorter than want, else nil.
// Codec Decode functions pass the result straight to AddError.
func CheckSize(have, want int) error {
	if have < want {
		return ErrNotEnoughBytes
	}
	return nil
}

// HasError reports whether any error has been accumulated.
func (v *Validator) HasError() bool { return len(v.accum) > 0 }

// Err returns nil, the sole accumulated error, or a joined error, and resets
// the accumulator.
func (v *Validator) Err() error {
	err := v.ErrPop()
	return err
}

// ErrPop is an alias for Err kept for parity with the teacher's naming
// (lneto.Validator.ErrPop); both pop and clear the accumulator.
func (v *Validator) ErrPop() error {
	switch len(v.accum) {
	case 0:
		return nil
	case 1:
		err := v.accum[0]
		v.accum = v.accum[:0]
		return err
	default:
		err := errors.Join(v.accum...)
		v.accum = v.accum[:0]
		return err
	}
}
