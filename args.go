// File: scopeconf/args.go
package scopeconf

import (
	"fmt"
	"strings"
)

// ParseArgs processes command-line arguments into a Source named "cli".
// Arguments may take the form "--key=value", "--key value", or "--flag"
// (which yields "true"). Values stay strings; the resolver coerces them.
func ParseArgs(args []string) (Source, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++
		} else {
			keyPath = argContent
			// Boolean flag when the next arg is another flag or args end
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		for _, segment := range splitPath(keyPath) {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in %q", segment, keyPath)
			}
		}

		result[keyPath] = valueStr
	}

	return NewMapSource(SourceCLI, result), nil
}
