package core

import "fmt"

// IntToStringFixedWidth converts an integer to a string of a specified width,
// left-padding with spaces. Longer numbers are not truncated.
func IntToStringFixedWidth(num int, width int) string {
	return fmt.Sprintf("%*d", width, num)
}
