package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Verify at compile time that both key maps satisfy help.KeyMap.
var (
	_ help.KeyMap = browseKeys{}
	_ help.KeyMap = searchKeys{}
)

func collectKeys(bindings []key.Binding) []string {
	var keys []string
	for _, b := range bindings {
		keys = append(keys, b.Keys()...)
	}
	return keys
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func TestBrowseKeyMap_Bindings(t *testing.T) {
	km := BrowseKeyMap()
	short := collectKeys(km.ShortHelp())

	for _, want := range []string{"up", "k", "down", "j", "/", "q"} {
		if !containsKey(short, want) {
			t.Errorf("short help missing key %q", want)
		}
	}

	var full []key.Binding
	for _, group := range km.FullHelp() {
		full = append(full, group...)
	}
	if !containsKey(collectKeys(full), "esc") {
		t.Error("full help should include the clear-search key")
	}
}

func TestSearchKeyMap_Bindings(t *testing.T) {
	keys := collectKeys(SearchKeyMap().ShortHelp())

	if !containsKey(keys, "enter") || !containsKey(keys, "esc") {
		t.Errorf("search help keys = %v, want enter and esc", keys)
	}
	if containsKey(keys, "q") {
		t.Error("search help should not offer q, it is typed into the box")
	}
}
