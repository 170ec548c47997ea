package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func newIndexerServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/l2/withdrawals", handler).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func TestWithdrawalIndexClientGetWithdrawals(t *testing.T) {
	address := "0x1111111111111111111111111111111111111111"
	ctx := context.Background()

	t.Run("parses records and claim proofs", func(t *testing.T) {
		server := newIndexerServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, address, r.URL.Query().Get("address"))
			require.Equal(t, "1", r.URL.Query().Get("page"))
			require.Equal(t, "100", r.URL.Query().Get("page_size"))

			response := withdrawalsResponse{
				Data: withdrawalsData{
					Results: []WithdrawalRecord{
						{
							Hash:   "0xwd1",
							Amount: "500000",
							ClaimInfo: &ClaimInfo{
								Value: "500000",
								Nonce: "3",
								Proof: ClaimProof{
									BatchIndex:  "9",
									MerkleProof: "0xaabb",
								},
								Claimable: true,
							},
						},
						{
							Hash:          "0xwd2",
							Amount:        "250",
							CounterpartTx: CounterpartTx{Hash: "0xclaimed"},
						},
					},
					Total: 2,
				},
			}

			require.NoError(t, json.NewEncoder(w).Encode(response))
		})

		client := NewWithdrawalIndexClient(server.URL, hclog.NewNullLogger())

		records, err := client.GetWithdrawals(ctx, address)
		require.NoError(t, err)
		require.Len(t, records, 2)

		require.Equal(t, "0xwd1", records[0].Hash)
		require.NotNil(t, records[0].ClaimInfo)
		require.True(t, records[0].ClaimInfo.Claimable)

		claim, err := records[0].ClaimInfo.ToClaim()
		require.NoError(t, err)
		require.Equal(t, uint64(500000), claim.Value.Uint64())
		require.Equal(t, uint64(9), claim.BatchIndex.Uint64())
		require.Equal(t, []byte{0xaa, 0xbb}, claim.MerkleProof)

		require.Equal(t, "0xclaimed", records[1].CounterpartTx.Hash)
		require.Nil(t, records[1].ClaimInfo)
	})

	t.Run("indexer error envelope", func(t *testing.T) {
		server := newIndexerServer(t, func(w http.ResponseWriter, _ *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode(withdrawalsResponse{
				ErrCode: 500,
				ErrMsg:  "internal error",
			}))
		})

		client := NewWithdrawalIndexClient(server.URL, hclog.NewNullLogger())

		_, err := client.GetWithdrawals(ctx, address)
		require.Error(t, err)
		require.ErrorContains(t, err, "internal error")
	})

	t.Run("empty result set", func(t *testing.T) {
		server := newIndexerServer(t, func(w http.ResponseWriter, _ *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode(withdrawalsResponse{}))
		})

		client := NewWithdrawalIndexClient(server.URL, hclog.NewNullLogger())

		records, err := client.GetWithdrawals(ctx, address)
		require.NoError(t, err)
		require.Empty(t, records)
	})
}
