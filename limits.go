package cotbridge

import "sync/atomic"

// XML security limits, enforced while streaming tokens during parsing.
// These guard against the classic XML denial-of-service shapes
// (oversized documents, deeply nested elements, huge attribute/text
// values) independent of any detail-schema validation, which is
// explicitly out of this engine's scope.
var (
	maxXMLSize      atomic.Int64
	maxElementDepth atomic.Int64
	maxElementCount atomic.Int64
	maxTokenLen     atomic.Int64
	maxValueLen     atomic.Int64
)

func init() {
	SetMaxXMLSize(2 << 20)
	SetMaxElementDepth(64)
	SetMaxElementCount(20000)
	SetMaxTokenLen(4096)
	SetMaxValueLen(512 * 1024)
}

// SetMaxXMLSize sets the maximum accepted size, in bytes, of an input
// CoT XML document.
func SetMaxXMLSize(n int64) { maxXMLSize.Store(n) }

// SetMaxElementDepth sets the maximum accepted element nesting depth of
// the whole document, counting the root <event> element as depth 1.
func SetMaxElementDepth(n int64) { maxElementDepth.Store(n) }

// SetMaxElementCount sets the maximum accepted total number of
// elements in a document.
func SetMaxElementCount(n int64) { maxElementCount.Store(n) }

// SetMaxTokenLen sets the maximum accepted length, in bytes, of a
// single XML token.
func SetMaxTokenLen(n int64) { maxTokenLen.Store(n) }

// SetMaxValueLen sets the maximum accepted length, in bytes, of any
// single attribute value or text run.
func SetMaxValueLen(n int64) { maxValueLen.Store(n) }

func currentMaxXMLSize() int64      { return maxXMLSize.Load() }
func currentMaxElementDepth() int64 { return maxElementDepth.Load() }
func currentMaxElementCount() int64 { return maxElementCount.Load() }
func currentMaxTokenLen() int64     { return maxTokenLen.Load() }
func currentMaxValueLen() int64     { return maxValueLen.Load() }
