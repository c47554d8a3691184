package httpd

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"./home.html", "text/html"},
		{"./godzilla.gif", "image/gif"},
		{"./logo.png", "image/png"},
		{"./photo.jpg", "image/jpeg"},
		{"./photo.heic", "image/jpeg"},
		{"./clip.mp4", "video/mp4"},
		{"./notes.txt", "text/plain"},
		{"./README", "text/plain"},
		{"./photo.jpeg", "text/plain"},
		// substring match, not a true extension
		{"./a.html.bak", "text/html"},
		// first entry in table order wins
		{"./x.png.html", "text/html"},
		{"./x.gif.png", "image/gif"},
	}

	for _, tt := range tests {
		if got := ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
