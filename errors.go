// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"fmt"
	"strings"
)

var (
	// ErrUnknownOpcode represents a decode error for an opcode byte that has
	// no matching operation. Decoding of the whole buffer fails.
	ErrUnknownOpcode = &Error{Name: "UnknownOpcodeError"}

	// ErrTruncatedOperand represents a decode error for an operation whose
	// operand bytes run past the end of the buffer.
	ErrTruncatedOperand = &Error{Name: "TruncatedOperandError"}

	// ErrInvalidStage represents a decode error for a resource binding
	// operation carrying an invalid shader stage value.
	ErrInvalidStage = &Error{Name: "InvalidStageError"}

	// ErrInvalidExtern represents a decode error for an extern load operation
	// carrying an extern identifier outside the known set.
	ErrInvalidExtern = &Error{Name: "InvalidExternError"}

	// ErrStackOverflow is returned when an evaluation pushes past the
	// evaluation stack's capacity.
	ErrStackOverflow = &Error{Name: "StackOverflowError"}

	// ErrStackUnderflow is returned when an evaluation pops more elements
	// than the evaluation stack holds.
	ErrStackUnderflow = &Error{Name: "StackUnderflowError"}

	// ErrIndexOutOfBounds is returned for an out of range constant, temp
	// register, output element or sampler index.
	ErrIndexOutOfBounds = &Error{Name: "IndexOutOfBoundsError"}

	// ErrUnimplementedOp is returned in strict mode when the interpreter hits
	// an operation it can decode but not execute.
	ErrUnimplementedOp = &Error{Name: "UnimplementedOpError"}

	// ErrUnsupportedOp is returned by the decompiler for an operation it has
	// no symbolic rendering rule for.
	ErrUnsupportedOp = &Error{Name: "UnsupportedOpError"}
)

// Error represents an error value of the bytecode subsystem and implements
// the error interface. Sentinel errors above are matched with errors.Is via
// Is and the Cause chain.
type Error struct {
	Name    string
	Message string
	Cause   error
}

func (o *Error) Unwrap() error {
	return o.Cause
}

// Error implements error interface.
func (o *Error) Error() string {
	name := o.Name
	if name == "" {
		name = "error"
	}
	if o.Message == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", name, o.Message)
}

// Is reports whether target is an *Error with the same Name, which makes
// errors.Is(err, ErrStackOverflow) work for wrapped sentinels.
func (o *Error) Is(target error) bool {
	if v, ok := target.(*Error); ok {
		return o.Name == v.Name
	}
	return false
}

// NewError creates a new Error and sets original Error as its cause which
// can be unwrapped.
func (o *Error) NewError(messages ...string) *Error {
	return &Error{
		Name:    o.Name,
		Message: strings.Join(messages, " "),
		Cause:   o,
	}
}
