package lib

import (
	"errors"
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

// Is() matches errors by module and code so errors.Is works across freshly constructed instances
func (p *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return p.ECode == t.ECode && p.EModule == t.EModule
}

// IsCode() reports whether err is an ErrorI with the given module and code
func IsCode(err error, module ErrorModule, code ErrorCode) bool {
	var e ErrorI
	if !errors.As(err, &e) {
		return false
	}
	return e.Module() == module && e.Code() == code
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 2
	CodeJSONUnmarshal   ErrorCode = 3
	CodeUnmarshal       ErrorCode = 4
	CodeMarshal         ErrorCode = 5
	CodeWriteFile       ErrorCode = 25
	CodeReadFile        ErrorCode = 26
	CodeInvalidArgument ErrorCode = 27
	CodePanic           ErrorCode = 49

	// Dex Module
	DexModule ErrorModule = "dex"

	// Dex Module Error Codes
	CodeInvalidAmount         ErrorCode = 1
	CodePoolAlreadyExists     ErrorCode = 2
	CodePoolNotFound          ErrorCode = 3
	CodeSlippageExceeded      ErrorCode = 4
	CodeInsufficientLiquidity ErrorCode = 5
	CodeLedgerTransferFailed  ErrorCode = 6
	CodeInsufficientFunds     ErrorCode = 7
	CodeInvalidAsset          ErrorCode = 8
	CodeIdenticalAssets       ErrorCode = 9
	CodeInvariantViolated     ErrorCode = 10
	CodeAmountOverflow        ErrorCode = 11
	CodeInvalidAddress        ErrorCode = 12
	CodeLedgerUnsupported     ErrorCode = 13

	StorageModule   ErrorModule = "store"
	CodeOpenDB      ErrorCode   = 1
	CodeCloseDB     ErrorCode   = 2
	CodeStoreSet    ErrorCode   = 3
	CodeStoreGet    ErrorCode   = 4
	CodeStoreDelete ErrorCode   = 5
	CodeCommitDB    ErrorCode   = 6
	CodeInvalidKey  ErrorCode   = 8

	RPCModule         ErrorModule = "rpc"
	CodeRPCTimeout    ErrorCode   = 1
	CodeInvalidParams ErrorCode   = 2
	CodePostRequest   ErrorCode   = 5
	CodeGetRequest    ErrorCode   = 6
	CodeHttpStatus    ErrorCode   = 7
	CodeReadBody      ErrorCode   = 8
	CodeResourceUsage ErrorCode   = 9
)

// error implementations below for the `lib` package
func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, err.Error())
}

func ErrUnmarshal(err error) ErrorI {
	return NewError(CodeUnmarshal, MainModule, fmt.Sprintf("unmarshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

func ErrPanic() ErrorI {
	return NewError(CodePanic, MainModule, "panic recovered")
}

func ErrServerTimeout() ErrorI {
	return NewError(CodeRPCTimeout, RPCModule, "server timeout")
}

func ErrReadBody(err error) ErrorI {
	return NewError(CodeReadBody, RPCModule, fmt.Sprintf("io.ReadAll(http.ResponseBody) failed with err: %s", err.Error()))
}
