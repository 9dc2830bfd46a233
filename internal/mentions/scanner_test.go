package mentions

import (
	"reflect"
	"testing"
)

func TestScan(t *testing.T) {
	cases := []struct {
		content string
		want    []string
	}{
		{"Kein Hinweis für irgendwen", nil},
		{"Bitte @max und @JS checken", []string{"max", "JS"}},
		{"@anna @anna doppelt erwähnt", []string{"anna"}},
		{"Mail an max@fund.example senden", []string{"fund"}},
		{"Deadline @montag, dann @MS", []string{"montag", "MS"}},
	}
	for _, tc := range cases {
		if got := Scan(tc.content); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Scan(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}
