package shared

import "math"

// BoundedAttr8 is a base/current pair for byte-sized attributes. Modify
// moves only the current value, saturating at 0 and at the uint8 maximum;
// current may legitimately exceed base (temporary boosts).
type BoundedAttr8 struct {
	Base    uint8 `json:"base"`
	Current uint8 `json:"current"`
}

// NewBoundedAttr8 creates an attribute with current set to base.
func NewBoundedAttr8(base uint8) BoundedAttr8 {
	return BoundedAttr8{Base: base, Current: base}
}

// Modify adjusts the current value by delta, saturating.
func (a *BoundedAttr8) Modify(delta int) {
	v := int(a.Current) + delta
	if v < 0 {
		v = 0
	}
	if v > math.MaxUint8 {
		v = math.MaxUint8
	}
	a.Current = uint8(v)
}

// Reset restores current to base.
func (a *BoundedAttr8) Reset() {
	a.Current = a.Base
}

// BoundedAttr16 is the sixteen-bit variant used for hit and spell points.
type BoundedAttr16 struct {
	Base    uint16 `json:"base"`
	Current uint16 `json:"current"`
}

// NewBoundedAttr16 creates an attribute with current set to base.
func NewBoundedAttr16(base uint16) BoundedAttr16 {
	return BoundedAttr16{Base: base, Current: base}
}

// Modify adjusts the current value by delta, saturating.
func (a *BoundedAttr16) Modify(delta int) {
	v := int(a.Current) + delta
	if v < 0 {
		v = 0
	}
	if v > math.MaxUint16 {
		v = math.MaxUint16
	}
	a.Current = uint16(v)
}

// ModifyClamped adjusts the current value by delta, saturating at 0 and at
// base. Hit and spell points never exceed their base.
func (a *BoundedAttr16) ModifyClamped(delta int) {
	a.Modify(delta)
	if a.Current > a.Base {
		a.Current = a.Base
	}
}

// Reset restores current to base.
func (a *BoundedAttr16) Reset() {
	a.Current = a.Base
}
