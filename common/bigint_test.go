package common

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigIntJSON(t *testing.T) {
	t.Run("round trip beyond 53 bits", func(t *testing.T) {
		huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.True(t, ok)

		raw, err := json.Marshal(NewBigInt(huge))
		require.NoError(t, err)
		require.Equal(t, `"123456789012345678901234567890#bigint"`, string(raw))

		parsed := &BigInt{}
		require.NoError(t, json.Unmarshal(raw, parsed))
		require.Equal(t, 0, parsed.ToInt().Cmp(huge))
	})

	t.Run("embedded in a struct", func(t *testing.T) {
		type payload struct {
			Amount *BigInt `json:"amount,omitempty"`
		}

		raw, err := json.Marshal(payload{Amount: NewBigIntFromUint64(42)})
		require.NoError(t, err)

		var decoded payload
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.Equal(t, uint64(42), decoded.Amount.Uint64())
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		parsed := &BigInt{}
		require.Error(t, json.Unmarshal([]byte(`"abc#bigint"`), parsed))
		require.Error(t, json.Unmarshal([]byte(`12`), parsed))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		require.Nil(t, NewBigInt(nil))
		require.Nil(t, (*BigInt)(nil).ToInt())
	})
}
