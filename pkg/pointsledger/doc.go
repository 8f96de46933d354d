// Package pointsledger provides a client for a remote forum points
// service. A forum that keeps member point balances in its own backend
// exposes three endpoints (balance, debit, credit); this client makes
// that backend usable as the engine's ledger.
//
// # Authentication
//
// All requests are authenticated using:
//   - API Key: sent in the x-api-key header
//   - HMAC signature: SHA256 hash of the request body with a shared
//     secret, sent in the x-api-hmac header
//
// # Basic Usage
//
//	client := pointsledger.NewClient(&pointsledger.ClientConfig{
//	    BaseURL:   "https://forum.example.com/points",
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//
//	balance, err := client.Balance(ctx, playerID)
//
// The client implements the engine's ledger interface, so it drops in
// wherever the SQL ledger is used. Remote error codes are translated
// to the ledger's sentinel errors:
//
//	_, err := client.Debit(ctx, playerID, 100, domain.TxTypeWager, ref, "bet")
//	if errors.Is(err, ledger.ErrInsufficientFunds) {
//	    // member cannot cover the stake
//	}
package pointsledger
