package internal

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/mitchellh/pointerstructure"
)

// ToSnakeCase turns a monitor name into a Terraform-safe identifier:
//   - upper case runes are lowered, letters and digits are kept
//   - any other printable rune becomes _
//   - non printable runes are dropped
//
// Leading, trailing and repeated underscores are then collapsed away.
func ToSnakeCase(str string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r), unicode.IsNumber(r):
			return r
		case unicode.IsPrint(r):
			return '_'
		default:
			return -1
		}
	}, str)

	chunks := []string{}
	for _, chunk := range strings.Split(mapped, "_") {
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return strings.Join(chunks, "_")
}

// IndexOf returns the first index of needle in haystack, or -1.
func IndexOf[T comparable](needle T, haystack []T) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}

	return -1
}

// IndexOfWithField returns the index of the first element of haystack whose
// fieldName equals the same field on needle. It returns -1 when nothing
// matches or when needle has no such field.
func IndexOfWithField[T any](needle T, haystack []T, fieldName string) int {
	pointer := fmt.Sprintf("/%s", fieldName)

	needleVal, err := pointerstructure.Get(needle, pointer)
	if err != nil {
		return -1
	}

	for i, s := range haystack {
		stalk, err := pointerstructure.Get(s, pointer)
		if err != nil {
			continue
		}

		if reflect.DeepEqual(needleVal, stalk) {
			return i
		}
	}

	return -1
}
