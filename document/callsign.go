package document

import "github.com/dittocot/cotbridge/detail"

// extractCallsign derives the header's `e` field by probing the detail
// map in the order fixed by spec §4.5: __chat.senderCallsign, then
// contact.callsign, then ditto.deviceName, falling back to uid.
func extractCallsign(m detail.Map, uid string) string {
	probes := []struct{ tag, attr string }{
		{"__chat", "senderCallsign"},
		{"contact", "callsign"},
		{"ditto", "deviceName"},
	}
	for _, p := range probes {
		if v, ok := findTagAttr(m, p.tag, p.attr); ok {
			return v
		}
	}
	return uid
}

// findTagAttr looks for attr on a direct-child detail entry named tag,
// whether it was emitted under its natural key (singleton) or under a
// stable key carrying `_tag == tag` (duplicate siblings).
func findTagAttr(m detail.Map, tag, attr string) (string, bool) {
	if v, ok := m[tag]; ok {
		if sub, ok := v.(detail.Map); ok {
			if s, ok := sub[attr].(string); ok {
				return s, true
			}
		}
		return "", false
	}
	for key, v := range m {
		if detail.IsStableKey(key) {
			if sub, ok := v.(detail.Map); ok {
				if t, _ := sub["_tag"].(string); t == tag {
					if s, ok := sub[attr].(string); ok {
						return s, true
					}
				}
			}
		}
	}
	return "", false
}
