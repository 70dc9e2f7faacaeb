package intutils

import "testing"

func TestMinMax(t *testing.T) {
	if got := Min(3, -2, 7); got != -2 {
		t.Errorf("min: want -2, got %d", got)
	}
	if got := Max(3, -2, 7); got != 7 {
		t.Errorf("max: want 7, got %d", got)
	}
}

func TestClip(t *testing.T) {
	tests := []struct{ value, want int }{
		{-1, 0}, {0, 0}, {2, 2}, {3, 3}, {9, 3},
	}
	for _, test := range tests {
		if got := Clip(test.value, 0, 3); got != test.want {
			t.Errorf("clip(%d): want %d, got %d", test.value, test.want, got)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct{ value, want int }{
		{-1, 15}, {-17, 15}, {0, 0}, {16, 0}, {20, 4},
	}
	for _, test := range tests {
		if got := Mod(test.value, 16); got != test.want {
			t.Errorf("mod(%d): want %d, got %d", test.value, test.want, got)
		}
	}
	if Abs(-4) != 4 || Abs(4) != 4 {
		t.Error("abs: want 4")
	}
}
