package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var bracedVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s. `$VAR` and
// `${VAR}` expand via os.ExpandEnv, and `$$` emits a literal `$`.
// Unlike os.ExpandEnv, a `${VAR}` whose variable is absent from the
// environment is an error rather than an empty string, so a missing
// credential fails loudly at configuration time.
func ExpandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00DOCPROC_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	var missing []string
	seen := make(map[string]bool)
	for _, match := range bracedVarPattern.FindAllStringSubmatch(s, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := os.LookupEnv(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("secret: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	s = os.ExpandEnv(s)
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}
