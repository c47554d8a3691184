package httpd

import "strings"

// Target is what a request URI resolves to on disk.
type Target struct {
	Dynamic  bool
	Filename string
	Path     string // Filename without the root
	Args     string // raw query string, dynamic targets only
}

// Resolver maps request URIs onto the document root.
type Resolver struct {
	Root            string
	Marker          string
	DefaultDocument string
	// Prefix restricts dynamic content to URIs starting with "/<Marker>/".
	// Otherwise the marker may appear anywhere in the URI.
	Prefix bool
}

// IsDynamic reports whether uri names dynamic content.
func (r *Resolver) IsDynamic(uri string) bool {
	if r.Prefix {
		return strings.HasPrefix(uri, "/"+r.Marker+"/")
	}
	return strings.Contains(uri, r.Marker)
}

// Resolve classifies uri and derives the file it names. Filenames are the
// root concatenated with the URI path, no cleaning is done.
func (r *Resolver) Resolve(uri string) Target {
	if !r.IsDynamic(uri) {
		path := uri
		if strings.HasSuffix(uri, "/") {
			path += r.DefaultDocument
		}
		return Target{Filename: r.Root + path, Path: path}
	}

	path, args := uri, ""
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		path, args = uri[:i], uri[i+1:]
	}

	return Target{
		Dynamic:  true,
		Filename: r.Root + path,
		Path:     path,
		Args:     args,
	}
}

// hasDotDot reports whether the path part of uri has a ".." segment.
func hasDotDot(uri string) bool {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}
	for _, seg := range strings.Split(uri, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
