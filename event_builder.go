package cotbridge

import (
	"strconv"
	"time"

	"github.com/dittocot/cotbridge/cottime"
	"github.com/dittocot/cotbridge/detail"
	"github.com/dittocot/cotbridge/geopoint"
	"github.com/google/uuid"
)

// EventBuilder is a helper for constructing Event values with sane
// defaults, mirroring the teacher library's builder for the CoT header
// fields, generalized here with a detail-tree attachment step since
// this engine's Detail is a generic element tree rather than a fixed
// set of typed sub-schemas.
type EventBuilder struct {
	evt *Event
}

// NewEventBuilder creates a builder for an event of the given type at
// (lat, lon, hae), with start set to now and stale six seconds later —
// the same defaults the teacher's NewEventBuilder applies. An empty uid
// is replaced with a freshly generated UUID, since this engine may also
// be driven by local authorship that has not yet minted one.
func NewEventBuilder(uid, typ string, lat, lon, hae float64) *EventBuilder {
	if uid == "" {
		uid = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	e := getEvent()
	*e = Event{
		Version: "2.0",
		Uid:     uid,
		Type:    typ,
		How:     "m-g",
		Time:    cottime.Format(now),
		Start:   cottime.Format(now),
		Stale:   cottime.Format(now.Add(6 * time.Second)),
		Point: &geopoint.Point{
			LatStr: formatFloat(lat),
			LonStr: formatFloat(lon),
			HaeStr: formatFloat(hae),
			CeStr:  "9999999.0",
			LeStr:  "9999999.0",
		},
	}
	return &EventBuilder{evt: e}
}

// WithHow overrides the default "how" code.
func (b *EventBuilder) WithHow(how string) *EventBuilder {
	b.evt.How = how
	return b
}

// WithStaleTime overrides the default stale time.
func (b *EventBuilder) WithStaleTime(t time.Time) *EventBuilder {
	b.evt.Stale = cottime.Format(t)
	return b
}

// WithDetailChildren attaches the given direct children as the event's
// detail subtree.
func (b *EventBuilder) WithDetailChildren(children ...*detail.Element) *EventBuilder {
	b.evt.DetailPresent = true
	b.evt.Detail = append(b.evt.Detail, children...)
	return b
}

// Build validates and returns the constructed Event. The caller is
// responsible for releasing it with ReleaseEvent when done.
func (b *EventBuilder) Build() (*Event, error) {
	if err := b.evt.Validate(); err != nil {
		ReleaseEvent(b.evt)
		return nil, err
	}
	e := b.evt
	b.evt = nil
	return e, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
