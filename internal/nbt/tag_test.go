package nbt

import "testing"

func TestGetStringReturnsFalseForWrongKind(t *testing.T) {
	c := Compound{"count": Int(3)}
	if _, ok := c.GetString("count"); ok {
		t.Errorf("expected GetString to reject a non-string tag")
	}
}

func TestGetStringReturnsValueForStringTag(t *testing.T) {
	c := Compound{"id": String("minecraft:stone")}
	v, ok := c.GetString("id")
	if !ok || v != "minecraft:stone" {
		t.Errorf("expected (\"minecraft:stone\", true), got (%q, %v)", v, ok)
	}
}

func TestGetIntWidensEveryIntegerKind(t *testing.T) {
	c := Compound{
		"b": Byte(5),
		"i": Int(100),
		"l": Tag{Kind: KindLong, Long: 9000000000},
		"s": Tag{Kind: KindShort, Short: 42},
	}
	for key, want := range map[string]int64{"b": 5, "i": 100, "l": 9000000000, "s": 42} {
		got, ok := c.GetInt(key)
		if !ok || got != want {
			t.Errorf("GetInt(%q) = (%d, %v), want (%d, true)", key, got, ok, want)
		}
	}
}

func TestGetIntMissingKeyReturnsFalse(t *testing.T) {
	c := Compound{}
	if _, ok := c.GetInt("absent"); ok {
		t.Errorf("expected GetInt to report false for a missing key")
	}
}

func TestGetCompoundReturnsNestedCompound(t *testing.T) {
	inner := Compound{"x": Int(1)}
	c := Compound{"nested": CompoundTag(inner)}
	got, ok := c.GetCompound("nested")
	if !ok || got["x"].Int != 1 {
		t.Errorf("expected nested compound to round-trip, got %v ok=%v", got, ok)
	}
}

func TestGetListReturnsElementsInOrder(t *testing.T) {
	c := Compound{"items": ListTag(KindString, []Tag{String("a"), String("b")})}
	list, ok := c.GetList("items")
	if !ok || len(list) != 2 || list[0].Str != "a" || list[1].Str != "b" {
		t.Errorf("expected list elements preserved in order, got %v ok=%v", list, ok)
	}
}
