package schema

import (
	"regexp"
	"strings"
)

// blockCommentRegex matches /* ... */ and /** ... */ comments, including multi-line ones.
var blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

// declareRegex matches the `declare` modifier emitted in .d.ts declaration files.
var declareRegex = regexp.MustCompile(`(?m)^([ \t]*export[ \t]+)declare[ \t]+`)

// PreprocessTypeScript normalizes declaration text before block scanning.
// Block comments are blanked (their line breaks kept so reported line numbers
// stay accurate) and line comments are dropped unless they carry @default,
// which keeps braces inside comments from ending a block early.
// `export declare` becomes `export`.
func PreprocessTypeScript(input string) string {
	// 1. Blank block comments, preserving line count
	input = blockCommentRegex.ReplaceAllStringFunc(input, func(match string) string {
		return strings.Repeat("\n", strings.Count(match, "\n"))
	})

	// 2. Drop line comments, keeping only `// @default <literal>`
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		code, comment := splitComment(line)
		if code == line {
			continue
		}
		if m := defaultCommentRegex.FindStringSubmatch(comment); m != nil {
			lines[i] = code + "// @default " + m[1]
		} else {
			lines[i] = strings.TrimRight(code, " \t")
		}
	}
	input = strings.Join(lines, "\n")

	// 3. Drop the declare modifier
	input = declareRegex.ReplaceAllString(input, "$1")

	return input
}
