package util

import "strings"

// NormaliseSearchName folds a user supplied place name into the form stored
// in the searchname field - lowercase with collapsed whitespace.
func NormaliseSearchName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
