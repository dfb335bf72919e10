package checksum

import "testing"

func TestSum(t *testing.T) {
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != emptySHA {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different input produced the same sum")
	}
}

func TestTag(t *testing.T) {
	tag := Tag("abc", "All", "")
	if len(tag) != 34 || tag[0] != '"' || tag[33] != '"' {
		t.Fatalf("malformed tag %s", tag)
	}
	if tag != Tag("abc", "All", "") {
		t.Error("tag is not deterministic")
	}
	if Tag("ab", "c") == Tag("a", "bc") {
		t.Error("part boundaries not respected")
	}
}
