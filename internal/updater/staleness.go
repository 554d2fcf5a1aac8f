package updater

import (
	"reflect"
	"strings"
	"time"
)

// NeedsRefresh decides whether a field is due for a refresh.
//
//   - force always refreshes
//   - a present value is left alone
//   - an empty value that was never synced is refreshed
//   - an empty value is retried once intervalDays have passed since the last sync
func NeedsRefresh(current any, force bool, lastSyncedAt *time.Time, intervalDays int, now time.Time) bool {
	if force {
		return true
	}
	if !IsEmpty(current) {
		return false
	}
	if lastSyncedAt == nil || lastSyncedAt.IsZero() {
		return true
	}
	due := lastSyncedAt.Add(time.Duration(intervalDays) * 24 * time.Hour)
	return !now.Before(due)
}

// IsEmpty treats nil, nil pointers, blank strings, zero numbers, false and
// empty slices or maps as "no value".
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case int:
		return x == 0
	case float64:
		return x == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	default:
		return rv.IsZero()
	}
}
