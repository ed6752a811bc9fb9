package env

import (
	"reflect"
	"testing"
)

func TestGetString(t *testing.T) {
	t.Setenv("SA_TEST_STR", "value")
	if got := GetString("SA_TEST_STR", "fallback"); got != "value" {
		t.Errorf("got %q", got)
	}
	if got := GetString("SA_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("SA_TEST_INT", "42")
	t.Setenv("SA_TEST_BAD", "not a number")

	if got := GetInt("SA_TEST_INT", 7); got != 42 {
		t.Errorf("got %d", got)
	}
	if got := GetInt("SA_TEST_BAD", 7); got != 7 {
		t.Errorf("unparseable should fall back, got %d", got)
	}
	if got := GetInt("SA_TEST_UNSET", 7); got != 7 {
		t.Errorf("got %d", got)
	}
}

func TestGetFloat(t *testing.T) {
	t.Setenv("SA_TEST_FLOAT", "0.85")
	if got := GetFloat("SA_TEST_FLOAT", 0.5); got != 0.85 {
		t.Errorf("got %v", got)
	}
	if got := GetFloat("SA_TEST_UNSET", 0.5); got != 0.5 {
		t.Errorf("got %v", got)
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"false", true, false},
		{"garbage", true, false},
	}
	for _, tt := range tests {
		t.Setenv("SA_TEST_BOOL", tt.value)
		if got := GetBool("SA_TEST_BOOL", tt.fallback); got != tt.want {
			t.Errorf("GetBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := GetBool("SA_TEST_UNSET", true); got != true {
		t.Error("unset should fall back")
	}
}

func TestGetList(t *testing.T) {
	t.Setenv("SA_TEST_LIST", "feature_films, classic_tv ,television,")
	want := []string{"feature_films", "classic_tv", "television"}
	if got := GetList("SA_TEST_LIST", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	fallback := []string{"a"}
	if got := GetList("SA_TEST_UNSET", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("got %v", got)
	}
}
