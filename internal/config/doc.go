// Package config loads and watches tickloop's configuration.
//
// Config files are JSON or YAML (YAML is coerced to JSON so both formats go
// through the same strict decoder). Duration-valued fields are strings parsed
// with ParseDurationField; task intervals additionally accept "@every"
// descriptors and the compact HH:MM form via ParseEvery.
//
// The Manager supports hot reload: it watches the config file with fsnotify,
// debounces editor write storms, skips content-identical reloads by hash, and
// fans the committed config out to subscribers.
package config
