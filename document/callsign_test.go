package document

import (
	"testing"

	"github.com/dittocot/cotbridge/detail"
)

func TestExtractCallsignProbeOrder(t *testing.T) {
	t.Run("prefers chat sender callsign", func(t *testing.T) {
		m := detail.Map{
			"__chat":  detail.Map{"senderCallsign": "ALPHA-1"},
			"contact": detail.Map{"callsign": "Bravo2"},
		}
		if got := extractCallsign(m, "uid1"); got != "ALPHA-1" {
			t.Errorf("extractCallsign() = %q, want ALPHA-1", got)
		}
	})

	t.Run("falls back to contact callsign", func(t *testing.T) {
		m := detail.Map{"contact": detail.Map{"callsign": "Bravo2"}}
		if got := extractCallsign(m, "uid1"); got != "Bravo2" {
			t.Errorf("extractCallsign() = %q, want Bravo2", got)
		}
	})

	t.Run("falls back to ditto device name", func(t *testing.T) {
		m := detail.Map{"ditto": detail.Map{"deviceName": "phone-07"}}
		if got := extractCallsign(m, "uid1"); got != "phone-07" {
			t.Errorf("extractCallsign() = %q, want phone-07", got)
		}
	})

	t.Run("falls back to uid", func(t *testing.T) {
		m := detail.Map{}
		if got := extractCallsign(m, "uid1"); got != "uid1" {
			t.Errorf("extractCallsign() = %q, want uid1", got)
		}
	})

	t.Run("finds stable-keyed duplicate tag", func(t *testing.T) {
		key := detail.StableKey("U", "contact", 0)
		m := detail.Map{key: detail.Map{"_tag": "contact", "callsign": "Charlie3"}}
		if got := extractCallsign(m, "U"); got != "Charlie3" {
			t.Errorf("extractCallsign() = %q, want Charlie3 via stable-keyed contact", got)
		}
	})
}
