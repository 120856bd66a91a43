package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// TransactionsClient implements fantasy.TransactionsClient.
type TransactionsClient struct {
	httpClient *http.Client
}

// NewTransactionsClient creates a new transactions client.
func NewTransactionsClient(httpClient *http.Client) *TransactionsClient {
	return &TransactionsClient{httpClient: httpClient}
}

// Get implements fantasy.TransactionsClient.Get.
func (c *TransactionsClient) Get(ctx context.Context, transactionKey string) (*fantasy.Transaction, error) {
	path, err := fantasy.NewPathBuilder().AddResource("transaction", transactionKey).Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	var envelope struct {
		Transaction fantasy.Transaction `json:"transaction"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction response: %w", err)
	}

	return &envelope.Transaction, nil
}

// List implements fantasy.TransactionsClient.List.
func (c *TransactionsClient) List(ctx context.Context, leagueKey string) (*fantasy.Collection[fantasy.Transaction], error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("league", leagueKey).
		AddCollection("transactions").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var envelope struct {
		Transactions json.RawMessage `json:"transactions"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing transactions response: %w", err)
	}

	return fantasy.UnmarshalCollection[fantasy.Transaction](envelope.Transactions)
}
