package logger

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"9876543210", "******3210"},
		{"+91 98765 43210", "+** ***** *3210"},
		{"1234", "****"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskPhone(tc.input); got != tc.want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"customerName": "Ravi Kumar",
		"customerPhone": "9876543210",
		"nested": map[string]any{
			"phone": "0866-1234567",
		},
	}
	masked := MaskJSON(input)
	if masked["customerName"] != "Ravi Kumar" {
		t.Fatalf("expected name untouched, got %v", masked["customerName"])
	}
	if masked["customerPhone"] != "******3210" {
		t.Fatalf("expected masked phone, got %v", masked["customerPhone"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["phone"] != "****-***4567" {
		t.Fatalf("expected masked nested phone, got %v", nested["phone"])
	}
}
