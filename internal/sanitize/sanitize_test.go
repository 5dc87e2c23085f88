package sanitize

import (
	"strings"
	"testing"
)

func TestDescription_StripsActiveContent(t *testing.T) {
	in := `<p>Great job</p><script>alert(1)</script><iframe src="https://evil"></iframe>`
	out := Description(in)
	if strings.Contains(out, "script") || strings.Contains(out, "iframe") {
		t.Errorf("active content survived: %q", out)
	}
	if !strings.Contains(out, "Great job") {
		t.Errorf("benign content lost: %q", out)
	}
}

func TestDescription_EventHandlersAndScriptURLs(t *testing.T) {
	in := `<p onclick="steal()">x</p><a href="javascript:alert(1)">click</a>`
	out := Description(in)
	if strings.Contains(out, "onclick") || strings.Contains(strings.ToLower(out), "javascript:") {
		t.Errorf("script vector survived: %q", out)
	}
}

func TestDescription_Images(t *testing.T) {
	in := `<img src="https://tracker.example/pixel.gif"><img src="data:image/png;base64,iVBORw0KGgo=">`
	out := Description(in)
	if strings.Contains(out, "tracker.example") {
		t.Errorf("remote image survived: %q", out)
	}
	if !strings.Contains(out, "data:image/png") {
		t.Errorf("data: image dropped: %q", out)
	}
}

func TestDescription_AnchorsGetSafeRel(t *testing.T) {
	out := Description(`<a href="https://acme.com/careers">apply</a>`)
	if !strings.Contains(out, `target="_blank"`) || !strings.Contains(out, "noopener") {
		t.Errorf("anchor not hardened: %q", out)
	}
	if !strings.Contains(out, `href="https://acme.com/careers"`) {
		t.Errorf("legit href lost: %q", out)
	}
}

func TestDescription_Empty(t *testing.T) {
	if got := Description("   "); got != "" {
		t.Errorf("Description(blank) = %q, want empty", got)
	}
}
