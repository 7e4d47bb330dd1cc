// Package config resolves the gdrivetoken configuration file.
//
// A configuration is a small mapping persisted as JSON (or YAML when the file
// name ends in .yaml or .yml). Every recognized key has a hard-coded default
// that applies whenever the key is absent or holds a falsy value such as an
// empty string, an empty list, null, false or zero. An explicit empty
// override therefore means "unset", never "disabled".
//
// Keys containing the marker "__comments__" exist purely for human readers
// and are dropped on load. JSON files may additionally use the relaxed
// HuJSON dialect (line comments and trailing commas).
//
// Example usage:
//
//	cfg, created, err := config.LoadOrCreate("config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if created {
//	    fmt.Println("wrote defaults")
//	}
//
//	src, err := cfg.ClientSecretSource()
//	if errors.Is(err, config.ErrClientSecretNotFound) {
//	    // no credentials.json / client_secret*.json next to the binary
//	}
package config
