// Package markup repairs SVG text returned by the prediction service so it
// can be embedded inline and scales with its container.
package markup

import (
	"html/template"
	"regexp"
	"strings"
)

// CanonicalDeclaration replaces whatever XML declaration precedes the root.
const CanonicalDeclaration = "<?xml version='1.0' encoding='UTF-8'?>"

var (
	legacyEncoding = regexp.MustCompile(`(?i)encoding=(['"])iso-8859-1(['"])`)
	// Attributes that the renderer sometimes emits glued to the previous token.
	// The leading group keeps names such as data-xmlns intact.
	gluedAttribute = regexp.MustCompile(`(^|[^\w:.\-])\s*(xmlns(?::[A-Za-z_][\w.\-]*)?|xml:space|viewBox)=`)
	rootTag        = regexp.MustCompile(`<svg(?:[\s/][^>]*)?>`)
	sizeAttribute  = regexp.MustCompile(`([\s"'/])(?:width|height)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>"'/]*)`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	leadingDecl    = regexp.MustCompile(`^<\?xml[^>]*\?>\s*<svg`)
)

// Normalize rewrites raw SVG markup:
//
//   - the iso-8859-1 declaration becomes UTF-8
//   - namespace and viewBox attributes get a separating space
//   - the root <svg> is forced to width="100%" height="auto"
//   - whitespace runs collapse to one space
//   - the declaration is rewritten and the root starts on the next line
//
// Normalize never fails, and Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = legacyEncoding.ReplaceAllString(s, "encoding='UTF-8'")
	s = gluedAttribute.ReplaceAllString(s, "$1 $2=")
	s = resizeRoot(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = leadingDecl.ReplaceAllLiteralString(s, CanonicalDeclaration+"\n<svg")

	return strings.TrimSpace(s)
}

// resizeRoot strips every width/height attribute from the first <svg> tag and
// inserts the responsive pair right after the element name.
func resizeRoot(s string) string {
	loc := rootTag.FindStringIndex(s)
	if loc == nil {
		return s
	}
	tag := s[loc[0]:loc[1]]
	attrs := tag[len("<svg"):]
	for sizeAttribute.MatchString(attrs) {
		attrs = sizeAttribute.ReplaceAllString(attrs, "$1")
	}
	attrs = strings.TrimLeft(attrs, " \t\n\r\f")
	if !strings.HasPrefix(attrs, ">") && !strings.HasPrefix(attrs, "/") {
		attrs = " " + attrs
	}
	return s[:loc[0]] + `<svg width="100%" height="auto"` + attrs + s[loc[1]:]
}

// Trusted is normalized markup that the caller has decided to inject without
// escaping.
type Trusted = template.HTML

// Trust normalizes raw and marks it safe for html/template output. Only use it
// for markup that came from the configured prediction service or the local
// renderer.
func Trust(raw string) Trusted {
	return template.HTML(Normalize(raw))
}

//Personal.AI order the ending
