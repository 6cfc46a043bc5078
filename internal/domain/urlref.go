package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// AbsoluteToRelative expresses to relative to the document at from.
// References to another scheme or host are returned unchanged.
func AbsoluteToRelative(from, to string) string {
	f, err := url.Parse(from)
	if err != nil {
		return to
	}
	t, err := url.Parse(to)
	if err != nil {
		return to
	}
	if f.Scheme != t.Scheme || f.Host != t.Host {
		return to
	}
	if !strings.HasPrefix(t.Path, "/") {
		return to
	}

	fromSegs := strings.Split(strings.TrimPrefix(f.EscapedPath(), "/"), "/")
	toSegs := strings.Split(strings.TrimPrefix(t.EscapedPath(), "/"), "/")
	fromDirs := fromSegs[:len(fromSegs)-1]
	toDirs := toSegs[:len(toSegs)-1]

	common := 0
	for common < len(fromDirs) && common < len(toDirs) && fromDirs[common] == toDirs[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromDirs); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toSegs[common:]...)

	rel := strings.Join(parts, "/")
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	if t.RawQuery != "" {
		rel += "?" + t.RawQuery
	}
	if t.Fragment != "" {
		rel += "#" + t.EscapedFragment()
	}
	return rel
}

// ResolveRelative resolves ref against base using standard URI resolution
func ResolveRelative(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URI %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// ResolveEntityRefs rewrites every component src in entities to an
// absolute URI resolved against base.
func ResolveEntityRefs(entities map[string]EntityRecord, base string) error {
	for name, rec := range entities {
		for i, def := range rec.Components {
			if def.Src == "" {
				continue
			}
			abs, err := ResolveRelative(base, def.Src)
			if err != nil {
				return fmt.Errorf("entity %s: %w", name, err)
			}
			rec.Components[i].Src = abs
		}
	}
	return nil
}

// ConvertEntityRefsToRelative rewrites every component src in entities
// relative to target, the inverse of ResolveEntityRefs.
func ConvertEntityRefsToRelative(entities map[string]EntityRecord, target string) {
	for _, rec := range entities {
		for i, def := range rec.Components {
			if def.Src == "" {
				continue
			}
			rec.Components[i].Src = AbsoluteToRelative(target, def.Src)
		}
	}
}

// PathToURI turns an absolute filesystem path into a file URI
func PathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// URIToPath returns the filesystem path of a file URI. ok is false for
// other schemes.
func URIToPath(uri string) (path string, ok bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "file":
		return u.Path, true
	case "":
		return u.Path, strings.HasPrefix(u.Path, "/")
	}
	return "", false
}
