// Package settings stores the named string settings shared with the boot
// agent: username, password, hostname, root-path and the multi-boot timeout.
//
// Values are opaque strings. Store is the narrow interface the login flow
// depends on; Backend adds listing and Close for the CLI. Four backends are
// available through Open:
//
//   - memory: process-local map, used for dry runs
//   - file: a YAML document written atomically
//   - bolt: a bbolt database with one bucket
//   - sqlite: a SQLite database migrated on open
package settings
