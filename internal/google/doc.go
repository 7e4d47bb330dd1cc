// Package google obtains OAuth2 credentials for Google APIs and stores them on disk.
//
// Credentials are persisted in the JSON layout of the oauth2client Storage
// format, which is what the downstream consumer of the token file reads.
// A missing or zero-byte token file means "no credentials yet".
//
// The Authorizer first tries the stored credentials (refreshing them when
// the access token expired) and only falls back to the interactive browser
// flow when nothing usable is stored. The interactive flow runs a loopback
// HTTP server that receives the authorization code redirect.
package google
