package edit

import "net/url"

// mergeFields produces the full field set for a form POST: every current
// field carried verbatim, overlay fields applied on top. An overlay
// field that already has a live value is only replaced when canOverwrite
// allows it, so updating one field never silently reverts a sibling.
// Pure, no network.
func mergeFields(current url.Values, overlay url.Values, canOverwrite func(field string) bool) url.Values {
	merged := url.Values{}
	for field, values := range current {
		merged[field] = append([]string(nil), values...)
	}

	for field, values := range overlay {
		if hasValue(current, field) && !canOverwrite(field) {
			continue
		}
		merged[field] = append([]string(nil), values...)
	}

	return merged
}

func hasValue(fields url.Values, field string) bool {
	for _, v := range fields[field] {
		if v != "" {
			return true
		}
	}
	return false
}
