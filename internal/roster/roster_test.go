package roster

import "testing"

// TestNewBarcodeFormat ensures tokens are always 8 uppercase hex characters.
func TestNewBarcodeFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		token := NewBarcode()
		if !barcodePattern.MatchString(token) {
			t.Fatalf("token %q does not match ^[0-9A-F]{8}$", token)
		}
	}
}

// TestParseDepartment ensures the department set is closed.
func TestParseDepartment(t *testing.T) {
	for _, d := range Departments() {
		parsed, err := ParseDepartment(string(d))
		if err != nil {
			t.Fatalf("ParseDepartment(%q) returned error: %v", d, err)
		}
		if parsed != d {
			t.Fatalf("ParseDepartment(%q) = %q", d, parsed)
		}
	}

	for _, bad := range []string{"", "computer science and engineering", "Physics"} {
		if _, err := ParseDepartment(bad); err == nil {
			t.Fatalf("ParseDepartment(%q) accepted an unknown department", bad)
		}
	}
}
