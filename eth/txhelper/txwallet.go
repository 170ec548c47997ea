package ethtxhelper

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type EthTxWallet struct {
	addr       common.Address
	privateKey *ecdsa.PrivateKey
}

func NewEthTxWallet(pk string) (*EthTxWallet, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(pk, "0x"))
	if err != nil {
		return nil, err
	}

	return &EthTxWallet{
		privateKey: privateKey,
		addr:       crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

func GenerateNewEthTxWallet() (*EthTxWallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &EthTxWallet{
		privateKey: privateKey,
		addr:       crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

func (w EthTxWallet) GetTransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(w.privateKey, chainID)
}

func (w EthTxWallet) GetAddress() common.Address {
	return w.addr
}

func (w EthTxWallet) GetAddressHex() string {
	return w.addr.String()
}

func (w EthTxWallet) GetHexPrivateKey() string {
	return hex.EncodeToString(crypto.FromECDSA(w.privateKey))
}
