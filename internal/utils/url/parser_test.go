package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestStripQueryFragment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://cdn.example.com/a/photo.jpg?v=3&cache=1", "https://cdn.example.com/a/photo.jpg"},
		{"https://cdn.example.com/a/photo.jpg#section", "https://cdn.example.com/a/photo.jpg"},
		{"https://cdn.example.com/a/photo.jpg", "https://cdn.example.com/a/photo.jpg"},
	}
	for _, tt := range tests {
		if got := StripQueryFragment(tt.in); got != tt.want {
			t.Errorf("StripQueryFragment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/img/photo.jpg", "jpg"},
		{"https://example.com/img/photo.PNG?x=1", "png"},
		{"https://example.com/img/photo.webp", "webp"},
		{"https://example.com/img/photo", "jpg"},
		{"https://example.com/img/archive.zip", "jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ImageExt(tt.url); got != tt.want {
				t.Errorf("ImageExt(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsImageURL(t *testing.T) {
	if !IsImageURL("https://example.com/a.jpeg") {
		t.Error("expected jpeg to be an image URL")
	}
	if IsImageURL("https://example.com/gallery/2") {
		t.Error("expected plain path to not be an image URL")
	}
}

func TestPageURL(t *testing.T) {
	if got := PageURL("https://example.com/gallery/abc/", 1); got != "https://example.com/gallery/abc/" {
		t.Errorf("page 1 must be the base URL verbatim, got %q", got)
	}
	if got := PageURL("https://example.com/gallery/abc/", 3); got != "https://example.com/gallery/abc/?page=3" {
		t.Errorf("unexpected page URL: %q", got)
	}
}
