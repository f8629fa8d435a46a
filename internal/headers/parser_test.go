package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"Accept-Language: ja,en;q=0.8", "Referer: https://beauty.example.jp/", "noseparator"}
	want := map[string]string{
		"Accept-Language": "ja,en;q=0.8",
		"Referer":         "https://beauty.example.jp/",
	}

	got := ParseHeaders(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected parse result: %#v", got)
	}
}

func TestParseHeadersValueWithColon(t *testing.T) {
	got := ParseHeaders([]string{"Referer: https://example.jp:8443/path"})
	if got["Referer"] != "https://example.jp:8443/path" {
		t.Errorf("value should keep its own colons, got %q", got["Referer"])
	}
}

func TestMerge(t *testing.T) {
	base := map[string]string{"User-Agent": "stylesync/default", "Accept": "text/html"}
	override := map[string]string{"User-Agent": "custom-agent"}

	out := Merge(base, override)
	if out["User-Agent"] != "custom-agent" {
		t.Errorf("override should win, got %q", out["User-Agent"])
	}
	if out["Accept"] != "text/html" {
		t.Errorf("base keys should survive, got %q", out["Accept"])
	}
	if base["User-Agent"] != "stylesync/default" {
		t.Error("merge must not mutate base")
	}
}
