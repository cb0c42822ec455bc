package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SolanaClient calls the Solana JSON-RPC endpoint to confirm donation
// transfers made through Phantom.
type SolanaClient struct {
	RPCURL     string
	HTTPClient *http.Client
}

// NewSolanaClient builds a client for the given RPC endpoint.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		RPCURL: rpcURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type solanaRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type solanaRPCResponse struct {
	Result *solanaTransactionResult `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type solanaTransactionResult struct {
	Transaction struct {
		Message struct {
			Instructions []solanaInstruction `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

type solanaInstruction struct {
	Parsed *struct {
		Info struct {
			Destination string `json:"destination"`
		} `json:"info"`
	} `json:"parsed"`
}

// VerifyTransfer fetches the parsed transaction for signature and reports
// whether any instruction transfers to the platform wallet address. A missing
// transaction is reported as (false, nil) so callers can reject the donation
// without treating it as an RPC failure.
func (c *SolanaClient) VerifyTransfer(ctx context.Context, signature, platformAddress string) (bool, error) {
	if c.RPCURL == "" {
		return false, fmt.Errorf("solana RPC URL is not configured")
	}

	reqBody := solanaRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getTransaction",
		Params: []interface{}{
			signature,
			map[string]string{"encoding": "jsonParsed", "commitment": "confirmed"},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RPCURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach solana RPC: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("solana RPC error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var rpcResp solanaRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return false, fmt.Errorf("failed to decode RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		return false, fmt.Errorf("solana RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		// Transaction not found (not yet confirmed or bogus signature).
		return false, nil
	}

	for _, instr := range rpcResp.Result.Transaction.Message.Instructions {
		if instr.Parsed != nil && instr.Parsed.Info.Destination == platformAddress {
			return true, nil
		}
	}
	return false, nil
}
