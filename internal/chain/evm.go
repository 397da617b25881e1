package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// EVMClient is a minimal JSON-RPC client for EVM chains. Every method takes a
// context so a hung wallet prompt or RPC endpoint can be cancelled by the caller.
type EVMClient struct {
	url    string
	client *http.Client
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// URL returns the RPC endpoint this client talks to.
func (c *EVMClient) URL() string { return c.url }

// Balance returns the native balance in wei for an address.
func (c *EVMClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	return decodeBig(result)
}

// ChainID returns the chain's numeric ID.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	result, err := c.call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	n, err := decodeBig(result)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	n, err := decodeBig(result)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, address string) (uint64, error) {
	result, err := c.call(ctx, "eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, err
	}
	n, err := decodeBig(result)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return decodeBig(result)
}

// EstimateGas estimates gas for a transaction. to may be empty for a
// contract-creation transaction.
func (c *EVMClient) EstimateGas(ctx context.Context, from, to string, data []byte, value *big.Int) (uint64, error) {
	params := map[string]string{"from": from}
	if to != "" {
		params["to"] = to
	}
	if len(data) > 0 {
		params["data"] = "0x" + hex.EncodeToString(data)
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.call(ctx, "eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	n, err := decodeBig(result)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// CallContract performs a read-only eth_call and returns the raw return data.
func (c *EVMClient) CallContract(ctx context.Context, to string, data []byte) ([]byte, error) {
	result, err := c.call(ctx, "eth_call", map[string]string{
		"to":   to,
		"data": "0x" + hex.EncodeToString(data),
	}, "latest")
	if err != nil {
		return nil, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return nil, fmt.Errorf("unexpected call result: %w", err)
	}
	return hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
}

// Code returns the bytecode at an address. Empty "0x" means EOA (no code).
func (c *EVMClient) Code(ctx context.Context, address string) (string, error) {
	result, err := c.call(ctx, "eth_getCode", address, "latest")
	if err != nil {
		return "", err
	}
	var code string
	if err := json.Unmarshal(result, &code); err != nil {
		return "", fmt.Errorf("unexpected code result: %w", err)
	}
	return code, nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", "0x"+hex.EncodeToString(raw))
	if err != nil {
		return "", err
	}
	var hash string
	if err := json.Unmarshal(result, &hash); err != nil {
		return "", fmt.Errorf("unexpected send result: %w", err)
	}
	return hash, nil
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash            string
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress string // non-empty when a contract was deployed
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil while the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash string) (*TxReceipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if string(result) == "null" {
		return nil, nil // still pending
	}

	var r struct {
		Status          string `json:"status"`
		BlockNumber     string `json:"blockNumber"`
		GasUsed         string `json:"gasUsed"`
		ContractAddress string `json:"contractAddress"`
	}
	if err := json.Unmarshal(result, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}

	receipt := &TxReceipt{Hash: hash, ContractAddress: r.ContractAddress}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	return receipt, nil
}

// WaitForReceipt polls every 2 s until the transaction is mined or ctx is
// cancelled. Returns the receipt and an error if the transaction reverted.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash string) (*TxReceipt, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, fmt.Errorf("transaction reverted (hash: %s)", hash)
			}
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// LogEntry holds one event log.
type LogEntry struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
	LogIndex    string   `json:"logIndex"`
}

// LogQuery filters an eth_getLogs request. A topic entry may be empty to
// match any value at that position.
type LogQuery struct {
	Address   string
	Topics    []string
	FromBlock string // hex block number or "earliest"/"latest"
	ToBlock   string
}

// Logs queries event logs matching the given filter, ordered by occurrence.
func (c *EVMClient) Logs(ctx context.Context, q LogQuery) ([]LogEntry, error) {
	filter := map[string]interface{}{
		"address":   q.Address,
		"fromBlock": q.FromBlock,
		"toBlock":   q.ToBlock,
	}
	if len(q.Topics) > 0 {
		topics := make([]interface{}, len(q.Topics))
		for i, t := range q.Topics {
			if t != "" {
				topics[i] = t
			}
		}
		filter["topics"] = topics
	}

	result, err := c.call(ctx, "eth_getLogs", filter)
	if err != nil {
		return nil, err
	}

	var logs []LogEntry
	if err := json.Unmarshal(result, &logs); err != nil {
		return nil, fmt.Errorf("parsing logs: %w", err)
	}
	return logs, nil
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func (c *EVMClient) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// --- math helpers ---

var wei1 = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// FormatWei converts a wei amount to a decimal string in the native currency.
func FormatWei(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, wei1)
	return f.Text('f', 18)
}

// ParseAmount converts a decimal native-currency amount (e.g. "1.5") to wei.
func ParseAmount(s string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has more than 18 decimal places", s)
	}
	return r.Num(), nil
}

func decodeBig(result json.RawMessage) (*big.Int, error) {
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return nil, fmt.Errorf("unexpected result: %s", result)
	}
	n, ok := parseBigHex(hexStr)
	if !ok {
		return nil, fmt.Errorf("could not parse hex quantity: %s", hexStr)
	}
	return n, nil
}

// ParseHexUint parses a 0x-prefixed hex quantity (e.g. a block number).
func ParseHexUint(s string) (uint64, bool) {
	n, ok := parseBigHex(s)
	if !ok || !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

func parseBigHex(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	return n, ok
}
