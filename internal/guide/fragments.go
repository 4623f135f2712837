package guide

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FragmentExt is the extension fragment files share with guides.
const FragmentExt = ".guide"

// expand resolves Include directives one level deep, inlining each
// fragment's non-comment lines at the include position. A fragment that
// itself includes another fragment is a compile error.
func expand(file string, src string, fragmentsDir string) ([]sourceLine, error) {
	var out []sourceLine
	for i, text := range strings.Split(src, "\n") {
		sl := sourceLine{File: file, Num: i + 1, Text: text}

		name, ok := includeTarget(text)
		if !ok {
			out = append(out, sl)
			continue
		}

		fragPath := filepath.Join(fragmentsDir, name+FragmentExt)
		data, err := os.ReadFile(fragPath)
		if err != nil {
			return nil, &CompileError{File: file, Line: sl.Num, Text: text,
				Reason: fmt.Sprintf("fragment %q not found in %s", name, fragmentsDir)}
		}

		for j, fragText := range strings.Split(string(data), "\n") {
			if skippable(fragText) {
				continue
			}
			if _, nested := includeTarget(fragText); nested {
				return nil, &CompileError{File: fragPath, Line: j + 1, Text: fragText,
					Reason: "fragments may not include other fragments"}
			}
			out = append(out, sourceLine{File: fragPath, Num: j + 1, Text: fragText})
		}
	}
	return out, nil
}
