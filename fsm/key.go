package fsm

import (
	"encoding/binary"

	"github.com/baarbz/DecentralizedExchange/lib"
)

/* Key.go contains prefix keys logic for the underlying store */

var (
	poolPrefix     = []byte{1} // store key prefix for pools
	positionPrefix = []byte{2} // store key prefix for liquidity positions
	balancePrefix  = []byte{3} // store key prefix for ledger balances
	eventPrefix    = []byte{4} // store key prefix for the event log
)

/*
- Prefixes group records so a kind of record can be iterated on its own

- Length prefixed append separates the segments of a key, so 'ab'+'c' never collides with 'a'+'bc'

- BigEndian encoding keeps uint64 segments in numeric order under lexicographical iteration
*/
func PoolPrefix() []byte  { return lib.JoinLenPrefix(poolPrefix) }
func EventPrefix() []byte { return lib.JoinLenPrefix(eventPrefix) }
func KeyForPool(k PoolKey) []byte {
	return lib.JoinLenPrefix(poolPrefix, []byte(k.Low), []byte(k.High))
}
func KeyForPosition(k PoolKey, provider string) []byte {
	return lib.JoinLenPrefix(positionPrefix, []byte(k.Low), []byte(k.High), []byte(provider))
}
func PositionPrefix(k PoolKey) []byte {
	return lib.JoinLenPrefix(positionPrefix, []byte(k.Low), []byte(k.High))
}
func KeyForBalance(asset AssetId, address string) []byte {
	return lib.JoinLenPrefix(balancePrefix, []byte(asset), []byte(address))
}
func KeyForEvent(sequence uint64) []byte {
	return lib.JoinLenPrefix(eventPrefix, formatUint64(sequence))
}

func formatUint64(u uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return b
}
