package common

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// bigIntSuffix tags serialized on-chain integers so they survive a json
// round trip without being coerced into a float64
const bigIntSuffix = "#bigint"

// BigInt is a json (de)serializable wrapper around big.Int. Values are
// written as decimal strings with a distinguishing suffix, which keeps
// magnitudes beyond the 53-bit safe-integer range exact
type BigInt struct {
	big.Int
}

func NewBigInt(v *big.Int) *BigInt {
	if v == nil {
		return nil
	}

	result := &BigInt{}
	result.Set(v)

	return result
}

func NewBigIntFromUint64(v uint64) *BigInt {
	result := &BigInt{}
	result.SetUint64(v)

	return result
}

func (b *BigInt) ToInt() *big.Int {
	if b == nil {
		return nil
	}

	return new(big.Int).Set(&b.Int)
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String() + bigIntSuffix)
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	var raw string

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw = strings.TrimSuffix(raw, bigIntSuffix)

	if _, ok := b.SetString(raw, 10); !ok {
		return fmt.Errorf("invalid big integer value: %s", raw)
	}

	return nil
}
