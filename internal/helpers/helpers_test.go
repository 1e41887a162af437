package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty string", "", FallbackTitle},
		{"Single character", "a", FallbackTitle},
		{"Pagination arrow", "→", FallbackTitle},
		{"Pagination word", "next", FallbackTitle},
		{"Pagination word upper", "Previous", FallbackTitle},
		{"Simple title", "My Video Title", "My Video Title"},
		{"Invalid characters", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"Ellipsis", "Title…", "Title..."},
		{"Smart quotes", "“Quoted” Title", "\"Quoted\" Title"},
		{"Em dash", "Before — After", "Before - After"},
		{"Leading trailing dots", " .Title. ", "Title"},
		{"Control characters", "Ti\x01tle\x02", "Title"},
		{"Long title truncated", strings.Repeat("x", 150), strings.Repeat("x", 100)},
		{"Only symbols collapse", ". ", FallbackTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPaginationGlyph(t *testing.T) {
	for _, glyph := range []string{"→", "»", "↗", "next", "NEXT", "more", "prev", "previous", " next "} {
		if !IsPaginationGlyph(glyph) {
			t.Errorf("IsPaginationGlyph(%q) = false, want true", glyph)
		}
	}
	for _, notGlyph := range []string{"", "Next Steps in Go", "a", "nextdoor"} {
		if IsPaginationGlyph(notGlyph) {
			t.Errorf("IsPaginationGlyph(%q) = true, want false", notGlyph)
		}
	}
}

func TestBytesToSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes uint64
		want  string
	}{
		{"Zero bytes", 0, "0B"},
		{"Bytes", 500, "500.00B"},
		{"Kilobytes", 1024, "1.00KB"},
		{"Kilobytes fractional", 1536, "1.50KB"},
		{"Megabytes", 1024 * 1024, "1.00MB"},
		{"Gigabytes", 1024 * 1024 * 1024, "1.00GB"},
		{"Terabytes", 1024 * 1024 * 1024 * 1024, "1.00TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BytesToSize(tt.bytes)
			if got != tt.want {
				t.Errorf("BytesToSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestCheckAndMakeDir(t *testing.T) {
	baseTempDir := t.TempDir()

	preExistingFile := filepath.Join(baseTempDir, "existing_file.txt")
	if _, err := os.Create(preExistingFile); err != nil {
		t.Fatalf("Failed to pre-create file %s: %v", preExistingFile, err)
	}

	tests := []struct {
		name       string
		dirToMake  string
		wantResult bool
	}{
		{"Create simple directory", "new_dir", true},
		{"Create nested directory", filepath.Join("nested", "dir", "to", "create"), true},
		{"Directory is a file", "existing_file.txt", false},
		{"Directory already exists", "new_dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath := filepath.Join(baseTempDir, tt.dirToMake)
			got := CheckAndMakeDir(fullPath)
			if got != tt.wantResult {
				t.Errorf("CheckAndMakeDir(%q) = %v, want %v", fullPath, got, tt.wantResult)
			}
			if tt.wantResult {
				info, err := os.Stat(fullPath)
				if err != nil || !info.IsDir() {
					t.Errorf("CheckAndMakeDir(%q) succeeded but directory is missing", fullPath)
				}
			}
		})
	}
}
