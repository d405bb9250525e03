package markup

import "testing"

func TestParseToleratesMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"<html><body><p>unclosed",
		"<a href='x'><b>bad <i>nesting</b></i>",
		"plain text, no tags at all",
		"<body>\xff\xfe broken bytes</body>",
	}
	for _, in := range inputs {
		doc := Parse(in)
		if doc == nil {
			t.Fatalf("Parse(%q) returned nil", in)
		}
	}
}

func TestFindAll(t *testing.T) {
	doc := Parse(`<body><a href="1"></a><p><a href="2"></a></p><img src="x"></body>`)
	if got := len(doc.FindAll("a")); got != 2 {
		t.Errorf("anchors = %d, want 2", got)
	}
	if got := len(doc.FindAll("img")); got != 1 {
		t.Errorf("images = %d, want 1", got)
	}
	if got := len(doc.FindAll("iframe")); got != 0 {
		t.Errorf("iframes = %d, want 0", got)
	}
}

func TestAttrCaseInsensitive(t *testing.T) {
	doc := Parse(`<form ACTION="http://x.test"></form>`)
	forms := doc.FindAll("form")
	if len(forms) != 1 {
		t.Fatalf("forms = %d, want 1", len(forms))
	}
	if v, ok := Attr(forms[0], "action"); !ok || v != "http://x.test" {
		t.Errorf("Attr = %q, %v", v, ok)
	}
	if _, ok := Attr(forms[0], "method"); ok {
		t.Error("absent attribute reported present")
	}
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc := Parse("<body>  hello \n\t <b>big</b>   world  </body>")
	if got := Text(doc.Body()); got != "hello big world" {
		t.Errorf("Text = %q, want %q", got, "hello big world")
	}
}

func TestTextNilNode(t *testing.T) {
	if got := Text(nil); got != "" {
		t.Errorf("Text(nil) = %q, want empty", got)
	}
}

func TestHasAncestor(t *testing.T) {
	doc := Parse(`<form><table><tr><td><input name="a"></td></tr></table></form><table><tr><td><input name="b"></td></tr></table>`)
	inputs := doc.FindAll("input")
	if len(inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(inputs))
	}
	if !HasAncestor(inputs[0], "form") {
		t.Error("first input should be inside a form")
	}
	if HasAncestor(inputs[1], "form") {
		t.Error("second input should be free-standing")
	}
}
