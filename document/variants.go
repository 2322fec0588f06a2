package document

import (
	"strconv"

	"github.com/dittocot/cotbridge/detail"
)

// chatFields derives the Chat variant's convenience fields from the
// detail map: message text from `remarks` (scalar or `_text`), room
// from `__chat.chatroom`, and group owner from `__chat.groupOwner`
// when present (spec §4.5).
func chatFields(m detail.Map) (message, room, groupOwner string) {
	switch v := m["remarks"].(type) {
	case string:
		message = v
	case detail.Map:
		if s, ok := v["_text"].(string); ok {
			message = s
		}
	}
	room, _ = findTagAttr(m, "__chat", "chatroom")
	groupOwner, _ = findTagAttr(m, "__chat", "groupOwner")
	return message, room, groupOwner
}

// fileFields derives the File variant's convenience fields from the
// `fileshare` detail element (spec §8 S3).
func fileFields(m detail.Map) (filename, mimetype, sha256 string, sizeBytes float64) {
	filename, _ = findTagAttr(m, "fileshare", "filename")
	mimetype, _ = findTagAttr(m, "fileshare", "mimetype")
	sha256, _ = findTagAttr(m, "fileshare", "sha256hash")
	if s, ok := findTagAttr(m, "fileshare", "sizeInBytes"); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			sizeBytes = f
		}
	}
	return filename, mimetype, sha256, sizeBytes
}
