package fsm

import (
	"fmt"

	"github.com/baarbz/DecentralizedExchange/lib"
)

func ErrInvalidAmount() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAmount, lib.DexModule, "amount must be greater than zero")
}

func ErrPoolAlreadyExists(key PoolKey) lib.ErrorI {
	return lib.NewError(lib.CodePoolAlreadyExists, lib.DexModule, fmt.Sprintf("pool %s already exists", key))
}

func ErrPoolNotFound(key PoolKey) lib.ErrorI {
	return lib.NewError(lib.CodePoolNotFound, lib.DexModule, fmt.Sprintf("pool %s not found", key))
}

func ErrSlippageExceeded(got, min uint64) lib.ErrorI {
	return lib.NewError(lib.CodeSlippageExceeded, lib.DexModule, fmt.Sprintf("amount %d is below the minimum %d", got, min))
}

func ErrInsufficientLiquidity() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientLiquidity, lib.DexModule, "insufficient liquidity")
}

func ErrLedgerTransferFailed(err error) lib.ErrorI {
	return lib.NewError(lib.CodeLedgerTransferFailed, lib.DexModule, fmt.Sprintf("ledger transfer failed with err: %s", err.Error()))
}

func ErrInsufficientFunds() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientFunds, lib.DexModule, "insufficient funds")
}

func ErrInvalidAsset() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAsset, lib.DexModule, fmt.Sprintf("asset id must be 1 to %d bytes", MaxIdLength))
}

func ErrIdenticalAssets() lib.ErrorI {
	return lib.NewError(lib.CodeIdenticalAssets, lib.DexModule, "a pool requires two different assets")
}

func ErrInvariantViolated() lib.ErrorI {
	return lib.NewError(lib.CodeInvariantViolated, lib.DexModule, "constant product decreased")
}

func ErrAmountOverflow() lib.ErrorI {
	return lib.NewError(lib.CodeAmountOverflow, lib.DexModule, "amount overflows 64 bits")
}

func ErrInvalidAddress() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAddress, lib.DexModule, fmt.Sprintf("address must be 1 to %d bytes", MaxIdLength))
}

func ErrInvalidKey(k []byte) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidKey, lib.StorageModule, fmt.Sprintf("key %x is invalid", k))
}

func ErrLedgerUnsupported(feature string) lib.ErrorI {
	return lib.NewError(lib.CodeLedgerUnsupported, lib.DexModule, fmt.Sprintf("the ledger does not support %s", feature))
}
