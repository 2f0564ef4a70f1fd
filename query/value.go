package query

// ValueKind tags a Value.
type ValueKind int

const (
	ValueUnknown ValueKind = iota
	ValueNumber
	ValueDimension
	ValueOrientation
	ValueBoolean
)

// Orientation is the resolved orientation of a container.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// Value is a condition operand or a resolved feature value.
type Value struct {
	Kind        ValueKind
	Number      float64
	Unit        string
	Orientation Orientation
	Bool        bool
}

// UnknownValue is the unknown sentinel.
func UnknownValue() Value {
	return Value{Kind: ValueUnknown}
}

// NumberValue wraps a plain number (ratios are stored this way too).
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// DimensionValue wraps a dimension with its unit.
func DimensionValue(n float64, unit string) Value {
	return Value{Kind: ValueDimension, Number: n, Unit: unit}
}

// PxValue wraps a pixel length.
func PxValue(n float64) Value {
	return DimensionValue(n, "px")
}

// OrientationValue wraps an orientation keyword.
func OrientationValue(o Orientation) Value {
	return Value{Kind: ValueOrientation, Orientation: o}
}

// BooleanValue wraps a boolean.
func BooleanValue(b bool) Value {
	return Value{Kind: ValueBoolean, Bool: b}
}
