// Package secret resolves credential references in configuration values.
//
// A value of the form "secretref:<provider>:<ref>" is replaced by what the
// named provider returns for ref. References may also appear inline, as in
// "Bearer secretref:file:/run/secrets/token". Before references are
// resolved, ${VAR} placeholders are expanded strictly: a missing variable
// is an error. "$$" yields a literal "$".
//
// Two providers are built in:
//   - env: the value of another environment variable.
//   - file: the contents of a file, without its trailing newline.
package secret
