package encode

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"net/url"
	"strings"
	"testing"
)

func TestDeflateRoundTrip(t *testing.T) {
	original := []byte(`<mxGraphModel><root><mxCell id="0"></mxCell></root></mxGraphModel>`)

	raw, err := Deflate(original)
	if err != nil {
		t.Fatalf("Deflate error: %v", err)
	}

	// The stripped stream must inflate with a headerless (raw) reader.
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	restored, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate error: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Errorf("round-trip mismatch\ngot:  %q\nwant: %q", restored, original)
	}
}

func TestDeflateStripsZlibFraming(t *testing.T) {
	raw, err := Deflate([]byte("payload"))
	if err != nil {
		t.Fatalf("Deflate error: %v", err)
	}

	// A zlib stream with default compression starts 0x78 0x9C; the
	// stripped stream must not.
	if len(raw) >= 2 && raw[0] == 0x78 && raw[1] == 0x9C {
		t.Error("zlib header still present")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	original := []byte(`<mxGraphModel><root><mxCell id="0"></mxCell><mxCell id="1" parent="0"></mxCell></root></mxGraphModel>`)

	token, err := Token(original)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}

	// Reverse each step in order: percent-decode, base64-decode, raw inflate.
	unescaped, err := url.QueryUnescape(token)
	if err != nil {
		t.Fatalf("percent-decode error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		t.Fatalf("base64-decode error: %v", err)
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	restored, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate error: %v", err)
	}

	if !bytes.Equal(restored, original) {
		t.Errorf("round-trip mismatch\ngot:  %q\nwant: %q", restored, original)
	}
}

func TestPercentEncodeEscapesAllNonAlphanumerics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"a+b", "a%2Bb"},
		{"a/b=", "a%2Fb%3D"},
		{"", ""},
		{" ", "%20"},
		{"%", "%25"},
	}
	for _, tt := range tests {
		if got := PercentEncode(tt.in); got != tt.want {
			t.Errorf("PercentEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenIsURLSafe(t *testing.T) {
	token, err := Token([]byte(strings.Repeat("<cell/>", 100)))
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if isAlphanumeric(c) || c == '%' {
			continue
		}
		t.Fatalf("unexpected character %q at %d in token", c, i)
	}
}

func TestViewerURL(t *testing.T) {
	got := ViewerURL("TOKEN")
	want := "https://app.diagrams.net?title=AWS%20Architecture%20Diagram.xml#RTOKEN"
	if got != want {
		t.Errorf("ViewerURL = %q, want %q", got, want)
	}
}
