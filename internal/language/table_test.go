package language

import (
	"testing"
)

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Pair{
		{Tag: "en", Code: "en"},
		{Tag: "en", Code: "eng"},
	})
	if err == nil {
		t.Error("Expected error for duplicate canonical tag")
	}

	_, err = NewTable([]Pair{
		{Tag: "zh-CN", Code: "zh-CHS"},
		{Tag: "zh", Code: "zh-CHS"},
	})
	if err == nil {
		t.Error("Expected error for duplicate provider code")
	}
}

func TestNewTable_RejectsEmptyPair(t *testing.T) {
	_, err := NewTable([]Pair{{Tag: "", Code: "en"}})
	if err == nil {
		t.Error("Expected error for empty tag")
	}
}

func TestTable_RoundTrip(t *testing.T) {
	table := DefaultTable()

	// Every supported tag (excluding "auto") must survive a reverse
	// lookup through its provider code
	for _, tag := range table.Supported() {
		code, ok := table.ProviderCode(tag)
		if !ok {
			t.Errorf("No provider code for supported tag %q", tag)
			continue
		}

		back, ok := table.CanonicalTag(code)
		if !ok {
			t.Errorf("No canonical tag for provider code %q", code)
			continue
		}
		if back != tag {
			t.Errorf("Round trip %q -> %q -> %q, want %q", tag, code, back, tag)
		}
	}
}

func TestTable_Auto(t *testing.T) {
	table := DefaultTable()

	code, ok := table.ProviderCode(Auto)
	if !ok || code != Auto {
		t.Errorf("ProviderCode(auto) = %q, %v; want auto, true", code, ok)
	}

	// auto must not appear in the supported list
	for _, tag := range table.Supported() {
		if tag == Auto {
			t.Error("Supported() contains auto")
		}
	}

	// and must not be reachable by reverse lookup
	if _, ok := table.CanonicalTag(Auto); ok {
		t.Error("CanonicalTag(auto) resolved, want miss")
	}
}

func TestTable_ChineseVariants(t *testing.T) {
	table := DefaultTable()

	code, ok := table.ProviderCode("zh-CN")
	if !ok || code != "zh-CHS" {
		t.Errorf("ProviderCode(zh-CN) = %q, want zh-CHS", code)
	}

	tag, ok := table.CanonicalTag("zh-CHT")
	if !ok || tag != "zh-TW" {
		t.Errorf("CanonicalTag(zh-CHT) = %q, want zh-TW", tag)
	}
}

func TestTable_UnknownLookups(t *testing.T) {
	table := DefaultTable()

	if _, ok := table.ProviderCode("xx"); ok {
		t.Error("Expected miss for unknown tag")
	}
	if _, ok := table.CanonicalTag("xx-YY"); ok {
		t.Error("Expected miss for unknown code")
	}
	if table.IsSupported("xx") {
		t.Error("IsSupported(xx) = true, want false")
	}
	if !table.IsSupported(Auto) {
		t.Error("IsSupported(auto) = false, want true")
	}
}
