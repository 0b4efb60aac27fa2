package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Sink(t *testing.T) {
	var c Collector
	sink := c.Sink()

	sink(Finding{Kind: KindLostPage, Archive: 0, Message: "page 3 not in pool"})
	sink(Finding{Kind: KindAmbiguousPlacement, Archive: 1, Message: "2 matches"})
	sink(Finding{Kind: KindLostPage, Archive: 1, Message: "page 9 not in pool"})

	assert.Len(t, c.Findings, 3)
	assert.Equal(t, 2, c.CountOf(KindLostPage))
	assert.Equal(t, 1, c.CountOf(KindAmbiguousPlacement))
	assert.Equal(t, 0, c.CountOf(KindPartialRecovery))
}

func TestFinding_String(t *testing.T) {
	f := Finding{Kind: KindLostPage, Archive: 2, Message: "oops"}
	assert.Contains(t, f.String(), "lost-page")
	assert.Contains(t, f.String(), "archive 2")
}
