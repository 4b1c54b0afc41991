package stacking

import (
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
)

// numberListItems assigns marker text to the items of one list owner.
// Numbering starts at the owner's start value (1, or the item count for
// reversed lists) and an item's explicit value restarts the count.
func numberListItems(owner *dom.ListOwner, items []*ElementPaint) {
	step := 1
	n := 1
	if owner.Reversed {
		step = -1
		n = len(items)
	}
	if owner.Start != nil {
		n = *owner.Start
	}
	for _, item := range items {
		if v := item.Element.ListValue; v != nil && *v != 0 {
			n = *v
		}
		item.ListValue = css.CounterText(n, item.Element.Style.ListStyleType, true)
		n += step
	}
}
