package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidHTTPURL(t *testing.T) {
	require.True(t, IsValidHTTPURL("http://localhost:8545"))
	require.True(t, IsValidHTTPURL("https://rpc.example.com/path"))
	require.False(t, IsValidHTTPURL(""))
	require.False(t, IsValidHTTPURL("localhost:8545"))
	require.False(t, IsValidHTTPURL("ws://localhost:8546"))
}

func TestDecodeHex(t *testing.T) {
	decoded, err := DecodeHex("0xaabb")
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb}, decoded)

	decoded, err = DecodeHex("aabb")
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb}, decoded)

	_, err = DecodeHex("0xzz")
	require.Error(t, err)
}

func TestMulPercentage(t *testing.T) {
	require.Equal(t, big.NewInt(170), MulPercentage(big.NewInt(100), 170))
	require.Equal(t, big.NewInt(0), MulPercentage(big.NewInt(0), 170))
}

func TestExplorerURLs(t *testing.T) {
	require.Equal(t, "https://scan.example.com/tx/0xabc",
		ExplorerTxURL("https://scan.example.com/", "0xabc"))
	require.Equal(t, "0xabc", ExplorerTxURL("", "0xabc"))
	require.Equal(t, "https://scan.example.com/address/0xdef",
		ExplorerAddressURL("https://scan.example.com", "0xdef"))
}
