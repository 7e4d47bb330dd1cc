// Package generator produces the token bundle consumed by the console
// application: an OAuth token file and a copy of the client secret, written
// side by side into the configured output folder.
//
// A run walks through a fixed sequence of steps:
//
//	START -> FOLDER_READY -> SECRET_LOCATED -> SENTINEL_CREATED
//	      -> AUTH_ATTEMPTED -> SECRET_COPIED -> DONE
//
// Before authorization an empty token file is created as a placeholder. The
// authorizer overwrites it with real credentials. Whatever happens during the
// run, a token file that is still empty afterwards is removed, so an empty
// file is never mistaken for a working token.
//
// Errors inside a run are reported to the user and returned in the Outcome;
// Run itself never fails.
package generator
