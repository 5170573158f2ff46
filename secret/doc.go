// Package secret resolves the plugin's remote API credentials.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider)
//   - Resolving secret references in credential values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:UPSTAGE_API_KEY
//   - Inline use:  Bearer secretref:env:UPSTAGE_API_KEY
package secret
