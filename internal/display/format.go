package display

import "fmt"

// Directive returns the CTest registration line for a renamed test file.
// Downstream build files consume it verbatim, so the format is fixed.
func Directive(folder, newName string) string {
	return fmt.Sprintf(`set_property(TEST %s/%s PROPERTY PASS_REGULAR_EXPRESSION "")`, folder, newName)
}

// Plural returns "1 file", "2 files" and so on.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
