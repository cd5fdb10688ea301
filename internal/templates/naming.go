package templates

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordSeparators split names into segments for derived forms.
const wordSeparators = "_- ."

func isSeparator(r rune) bool {
	return strings.ContainsRune(wordSeparators, r)
}

// PascalCase splits s on word separators and upper-cases the first
// character of every segment: "hello_world" -> "HelloWorld".
// It is total: empty segments contribute nothing and "" yields "".
func PascalCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, seg := range strings.FieldsFunc(s, isSeparator) {
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// SnakeCase lower-cases letters and digits and collapses every other run
// of characters into a single underscore: "My App" -> "my_app".
// A trailing underscore is dropped.
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Namespace returns the workspace identifier of a component:
// "{project}_{component}" in snake case.
func Namespace(project, component string) string {
	p, c := SnakeCase(project), SnakeCase(component)
	if p == "" {
		return c
	}
	if c == "" {
		return p
	}
	return p + "_" + c
}

// ValidateComponentName checks that name can be used both as a directory
// and, once namespaced, as a crate identifier.
func ValidateComponentName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return fmt.Errorf("invalid name %q: contains invalid character %q", name, r)
		}
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) {
		return fmt.Errorf("invalid name %q: must start with a letter", name)
	}

	if isReservedWord(SnakeCase(name)) {
		return fmt.Errorf("invalid name %q: cannot use reserved word", name)
	}

	return nil
}

// isReservedWord reports names that cannot be used as a crate name.
func isReservedWord(name string) bool {
	reserved := map[string]bool{
		"as": true, "async": true, "await": true, "break": true,
		"const": true, "continue": true, "core": true, "crate": true,
		"dyn": true, "else": true, "enum": true, "extern": true,
		"false": true, "fn": true, "for": true, "if": true,
		"impl": true, "in": true, "let": true, "loop": true,
		"match": true, "mod": true, "move": true, "mut": true,
		"pub": true, "ref": true, "return": true, "self": true,
		"static": true, "std": true, "struct": true, "super": true,
		"test": true, "trait": true, "true": true, "type": true,
		"unsafe": true, "use": true, "where": true, "while": true,
	}
	return reserved[name]
}
