// Package nbt models the minimal NBT compound shape the renderer
// consumes from callers. It is deliberately not a parser: textual
// SNBT/binary-NBT parsing lives outside the core (spec §1, out of
// scope) and hands the renderer an already-built Tag tree.
package nbt

// Kind tags the variant held by a Tag.
type Kind int

const (
	KindByte Kind = iota
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindByteArray
	KindIntArray
	KindLongArray
	KindList
	KindCompound
)

// Tag is a sum type over every NBT value shape the renderer needs to
// read. Exactly one of the typed fields is meaningful, selected by Kind.
type Tag struct {
	Kind Kind

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Str    string

	ByteArray []int8
	IntArray  []int32
	LongArray []int64

	// ListElem is the element Kind shared by every item in List.
	ListElem Kind
	List     []Tag

	Compound Compound
}

// Compound is an NBT compound: an ordered-access, unordered-iteration
// map of named tags.
type Compound map[string]Tag

// String builds a string-kind Tag.
func String(s string) Tag { return Tag{Kind: KindString, Str: s} }

// Int builds an int-kind Tag.
func Int(v int32) Tag { return Tag{Kind: KindInt, Int: v} }

// Byte builds a byte-kind Tag.
func Byte(v int8) Tag { return Tag{Kind: KindByte, Byte: v} }

// CompoundTag builds a compound-kind Tag from a Compound.
func CompoundTag(c Compound) Tag { return Tag{Kind: KindCompound, Compound: c} }

// ListTag builds a list-kind Tag.
func ListTag(elem Kind, items []Tag) Tag { return Tag{Kind: KindList, ListElem: elem, List: items} }

// GetCompound returns the named child compound, if present and of
// compound kind.
func (c Compound) GetCompound(key string) (Compound, bool) {
	t, ok := c[key]
	if !ok || t.Kind != KindCompound {
		return nil, false
	}
	return t.Compound, true
}

// GetString returns the named child string, if present and of string
// kind.
func (c Compound) GetString(key string) (string, bool) {
	t, ok := c[key]
	if !ok || t.Kind != KindString {
		return "", false
	}
	return t.Str, true
}

// GetInt returns the named child integer (Byte/Short/Int/Long widened
// to int64), if present and numeric.
func (c Compound) GetInt(key string) (int64, bool) {
	t, ok := c[key]
	if !ok {
		return 0, false
	}
	switch t.Kind {
	case KindByte:
		return int64(t.Byte), true
	case KindShort:
		return int64(t.Short), true
	case KindInt:
		return int64(t.Int), true
	case KindLong:
		return t.Long, true
	}
	return 0, false
}

// GetList returns the named child list, if present and of list kind.
func (c Compound) GetList(key string) ([]Tag, bool) {
	t, ok := c[key]
	if !ok || t.Kind != KindList {
		return nil, false
	}
	return t.List, true
}
