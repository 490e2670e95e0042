// Package file loads the TOML application configuration.
//
// Configuration lives at ~/.sipdex/config.toml by default. Secrets
// (GITHUB_TOKEN, OPENAI_API_KEY) come from the environment and override
// anything in the file.
package file
