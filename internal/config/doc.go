// Package config loads hydrate settings.
//
// Settings come from hydrate.json or hydrate.yaml, overridden by HYDRATE_*
// environment variables and by command-line flags bound with WithFlag.
// Nested keys use an underscore in the variable name:
//
//	{
//	  "mode": "safety",
//	  "contextWindow": 3,
//	  "ignoreAttrs": ["nonce"],
//	  "log": {"level": "debug"},
//	  "serve": {"addr": ":9000"}
//	}
//
//	HYDRATE_MODE=lenient HYDRATE_LOG_LEVEL=warn hydrate check ...
//
// Usage:
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.Options()
package config
