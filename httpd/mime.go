package httpd

import "strings"

// fileTypes is searched in order; the first token found in the name wins.
var fileTypes = []struct {
	token string
	mime  string
}{
	{".html", "text/html"},
	{".gif", "image/gif"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".heic", "image/jpeg"},
	{".mp4", "video/mp4"},
}

// ContentType classifies filename by the tokens in fileTypes. The match is
// a substring test, so "a.html.txt" is text/html.
func ContentType(filename string) string {
	for _, ft := range fileTypes {
		if strings.Contains(filename, ft.token) {
			return ft.mime
		}
	}
	return "text/plain"
}
