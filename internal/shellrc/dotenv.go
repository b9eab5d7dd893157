package shellrc

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// dotenvEscaper reverses the escapes godotenv expands inside double quotes.
// Dollar signs are escaped so values are never subject to variable expansion.
var dotenvEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	`$`, `\$`,
)

// MarshalDotenv renders vars as a dotenv file, one assignment per line in
// key order. Every value is written so godotenv parses it back unchanged;
// in particular numeric-looking values keep leading zeros and signs.
func MarshalDotenv(vars map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		line, err := dotenvLine(k, vars[k])
		if err != nil {
			return nil, err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// dotenvLine picks the first quoting style godotenv reads back verbatim.
// Double quotes cover almost everything, but the parser trims a trailing
// quote and treats a trailing backslash as escaping the closing quote.
func dotenvLine(key, value string) (string, error) {
	switch {
	case !strings.HasSuffix(value, `"`) && !strings.HasSuffix(value, `\`):
		return key + `="` + dotenvEscaper.Replace(value) + `"`, nil
	case !strings.ContainsAny(value, "'\r") && !strings.HasSuffix(value, `\`):
		return key + "='" + value + "'", nil
	case dotenvBare(value):
		return key + "=" + value, nil
	default:
		return "", fmt.Errorf("value of %s cannot be represented in dotenv format", key)
	}
}

// dotenvBare reports whether value survives unquoted: godotenv trims
// surrounding blanks, cuts comments and expands variables in bare values.
func dotenvBare(value string) bool {
	if value == "" || strings.ContainsAny(value, "$#\n\r") {
		return false
	}
	if strings.TrimSpace(value) != value {
		return false
	}
	return value[0] != '"' && value[0] != '\''
}
