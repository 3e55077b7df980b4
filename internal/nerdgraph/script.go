package nerdgraph

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// ScriptFetcher looks up the script body of a single monitor.
type ScriptFetcher struct {
	q Querier
}

func NewScriptFetcher(q Querier) *ScriptFetcher {
	return &ScriptFetcher{q: q}
}

func (f *ScriptFetcher) FetchScript(ctx context.Context, accountID int, guid string) (string, error) {
	vars := map[string]any{"accountId": accountID, "guid": guid}
	data, err := f.q.Query(ctx, getScriptQuery, vars)
	if err != nil {
		return "", fmt.Errorf("error fetching script for %s: %w", guid, err)
	}

	text, err := UnwrapString(data)
	if err != nil {
		return "", fmt.Errorf("error reading script for %s: %w", guid, err)
	}

	return text, nil
}

// UnwrapString descends through nested objects, always into the first member
// in document order, until it reaches a value that is not an object. That
// value must be a string. Field names are not checked, so a response that
// nests differently but still ends in a single string is accepted.
func UnwrapString(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: invalid JSON", ErrInvalidShape)
	}

	value := gjson.ParseBytes(data)
	for value.IsObject() {
		var (
			next  gjson.Result
			found bool
		)
		value.ForEach(func(_, member gjson.Result) bool {
			next, found = member, true
			return false
		})

		if !found {
			return "", fmt.Errorf("%w: empty object", ErrInvalidShape)
		}
		value = next
	}

	if value.Type != gjson.String {
		return "", fmt.Errorf("%w: expected a string, found %s", ErrInvalidShape, describe(value))
	}

	return value.Str, nil
}

func describe(value gjson.Result) string {
	switch {
	case value.IsArray():
		return "an array"
	case value.Type == gjson.Null:
		return "null"
	case value.Type == gjson.Number:
		return "a number"
	case value.Type == gjson.True, value.Type == gjson.False:
		return "a boolean"
	default:
		return value.Type.String()
	}
}
