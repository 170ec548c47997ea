package common

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func IsValidHTTPURL(input string) bool {
	u, err := url.ParseRequestURI(input)

	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func DecodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

func MulPercentage(v *big.Int, percentage uint64) *big.Int {
	res := new(big.Int).Mul(v, new(big.Int).SetUint64(percentage))

	return res.Div(res, big.NewInt(100))
}

func IsContextDoneErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// HTTPGet executes a http get request and decodes the json response into T
func HTTPGet[T any](ctx context.Context, requestURL string) (t T, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return t, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return t, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return t, fmt.Errorf("http status for %s code is %d", requestURL, resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&t)

	return t, err
}

func LoadJSON[TReturn any](path string) (*TReturn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer f.Close()

	var value TReturn

	if err := json.NewDecoder(f).Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &value, nil
}
