// Package config loads typed configuration from the environment.
//
// Load parses any struct annotated with github.com/caarlos0/env/v11 tags,
// after loading ./.env once through github.com/joho/godotenv. Each
// configuration type is parsed once and cached for the life of the process;
// ResetCache clears the cache in tests.
//
// Two configurations are defined here. App selects the storage backend and
// HTTP limits of the service. Policy carries the sanitizer settings:
//
//	STYLES_FUNCTION_WHITELIST  comma-separated CSS functions allowed in values
//	STYLES_PROPERTY_BLACKLIST  comma-separated properties never emitted
//	STYLES_NAMESPACES          namespaces whose transcluded pages contribute styles
//	STYLES_SCOPE_SELECTOR      selector prepended to every rule
//	STYLES_POLICY_FILE         optional YAML file merged into the lists
//
// The policy file maps names to booleans and only names set to true are
// used. LoadPolicy reads the environment and merges the file.
package config
