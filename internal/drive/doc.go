// Package drive builds Google Drive API clients.
//
// The token generator does not read or write any Drive content. It builds a
// Drive v3 client with freshly obtained credentials as the final step of
// authorization, so a broken credential setup shows up before the token file
// is handed to its consumer.
//
// Example usage:
//
//	client, err := drive.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//	_ = client.Service().Files
package drive
