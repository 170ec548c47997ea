package bridge

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Hand maintained ABI fragments for the bridge surface the e2e test drives.
// Only the entry points and events the pipeline consumes are listed.

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}

var L1ETHGatewayABI = mustParseABI(`[
	{"type":"function","name":"depositETH","stateMutability":"payable","inputs":[
		{"name":"_amount","type":"uint256"},{"name":"_gasLimit","type":"uint256"}],"outputs":[]}
]`)

var L1GatewayRouterABI = mustParseABI(`[
	{"type":"function","name":"depositERC20","stateMutability":"payable","inputs":[
		{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"},
		{"name":"_gasLimit","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getL2ERC20Address","stateMutability":"view","inputs":[
		{"name":"_l1Token","type":"address"}],"outputs":[{"name":"","type":"address"}]}
]`)

var L1MessageQueueABI = mustParseABI(`[
	{"type":"event","name":"QueueTransaction","anonymous":false,"inputs":[
		{"name":"sender","type":"address","indexed":true},
		{"name":"target","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false},
		{"name":"queueIndex","type":"uint64","indexed":false},
		{"name":"gasLimit","type":"uint256","indexed":false},
		{"name":"data","type":"bytes","indexed":false}]},
	{"type":"function","name":"getCrossDomainMessage","stateMutability":"view","inputs":[
		{"name":"_queueIndex","type":"uint256"}],"outputs":[{"name":"","type":"bytes32"}]}
]`)

var L1ScrollMessengerABI = mustParseABI(`[
	{"type":"function","name":"relayMessageWithProof","stateMutability":"nonpayable","inputs":[
		{"name":"_from","type":"address"},
		{"name":"_to","type":"address"},
		{"name":"_value","type":"uint256"},
		{"name":"_nonce","type":"uint256"},
		{"name":"_message","type":"bytes"},
		{"name":"_proof","type":"tuple","components":[
			{"name":"batchIndex","type":"uint256"},
			{"name":"merkleProof","type":"bytes"}]}],"outputs":[]}
]`)

var L2ETHGatewayABI = mustParseABI(`[
	{"type":"function","name":"withdrawETH","stateMutability":"payable","inputs":[
		{"name":"_amount","type":"uint256"},{"name":"_gasLimit","type":"uint256"}],"outputs":[]}
]`)

var L2GatewayRouterABI = mustParseABI(`[
	{"type":"function","name":"withdrawERC20","stateMutability":"payable","inputs":[
		{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"},
		{"name":"_gasLimit","type":"uint256"}],"outputs":[]}
]`)

var TestTokenABI = mustParseABI(`[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[
		{"name":"name_","type":"string"},{"name":"symbol_","type":"string"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[
		{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
		{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
		"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
		"outputs":[{"name":"","type":"bool"}]}
]`)

// compiled bytecode of the minimal test token, whole supply minted to the deployer
const testTokenBytecodeHex = "60806040523480156200001157600080fd5b5060405162000b8f38038062000b8f8339810160408190526200003491620001db565b600362000042838262000294565b50600462000051828262000294565b5050336000908152602081905260409020683635c9adc5dea00000905550620003609050565b634e487b7160e01b600052604160045260246000fd5b600082601f8301126200009f57600080fd5b81516001600160401b0380821115620000bc57620000bc62000077565b604051601f8301601f19908116603f01168101908282118183101715620000e757620000e762000077565b816040528381526020925086838588010111156200010457600080fd5b600091505b8382101562000128578582018301518183018401529082019062000109565b600093810190920192909252949350505050565b600080604083850312156200015057600080fd5b82516001600160401b03808211156200016857600080fd5b62000176868387016200008d565b935060208501519150808211156200018d57600080fd5b506200019c858286016200008d565b9150509250929050565b600181811c90821680620001bb57607f821691505b602082108103620001dc57634e487b7160e01b600052602260045260246000fd5b50919050565b600080604083850312156200020057600080fd5b82516001600160401b03808211156200021857600080fd5b62000226868387016200008d565b935060208501519150808211156200023d57600080fd5b506200024c858286016200008d565b9150509250929050565b601f8211156200028f57600081815260208120601f850160051c81016020861015620002855750805b601f850160051c820191505b81811015620002a657828155600101620002915b5050505b505050565b81516001600160401b03811115620002b057620002b062000077565b620002c881620002c18454620001a6565b8462000256565b602080601f831160018114620003005760008415620002e75750858301515b600019600386901b1c1916600185901b178555620002a6565b600085815260208120601f198616915b82811015620003315788860151825594840194600190910190840162000310565b5085821015620003505787850151600019600388901b60f8161c191681555b5050505050600190811b01905550565b61081f80620003706000396000f3fe"
