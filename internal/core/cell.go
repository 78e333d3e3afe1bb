package core

// Cell is the fixed-shape record stored at every grid position.
type Cell struct {
	A int
	B int
	C int
}

// Field identifies one of the three cell fields.
type Field uint8

const (
	FieldA Field = iota
	FieldB
	FieldC
)

// String returns the lowercase field name.
func (f Field) String() string {
	switch f {
	case FieldA:
		return "a"
	case FieldB:
		return "b"
	case FieldC:
		return "c"
	default:
		return "unknown"
	}
}

// FieldMask is a bit set of fields.
type FieldMask uint8

// Mask returns the single-field mask for f.
func (f Field) Mask() FieldMask { return 1 << f }

// Has reports whether f is in the mask.
func (m FieldMask) Has(f Field) bool { return m&f.Mask() != 0 }

// AllFields covers every cell field.
const AllFields = FieldMask(1<<FieldA | 1<<FieldB | 1<<FieldC)

// copyFields copies only the fields in mask from src into dst.
func copyFields(dst, src []Cell, mask FieldMask) {
	switch mask & AllFields {
	case 0:
		return
	case AllFields:
		copy(dst, src)
		return
	}
	a, b, c := mask.Has(FieldA), mask.Has(FieldB), mask.Has(FieldC)
	for i := range src {
		if a {
			dst[i].A = src[i].A
		}
		if b {
			dst[i].B = src[i].B
		}
		if c {
			dst[i].C = src[i].C
		}
	}
}
