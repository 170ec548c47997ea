package common

import "strings"

// ExplorerTxURL maps an explorer base url and a transaction hash to a
// browsable link. Empty base url yields the bare hash
func ExplorerTxURL(baseURL, txHash string) string {
	if baseURL == "" {
		return txHash
	}

	return strings.TrimSuffix(baseURL, "/") + "/tx/" + txHash
}

func ExplorerAddressURL(baseURL, address string) string {
	if baseURL == "" {
		return address
	}

	return strings.TrimSuffix(baseURL, "/") + "/address/" + address
}
