package form

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, Parse(httptest.NewRecorder(), r))
	return r
}

func TestRegister(t *testing.T) {
	r := postRequest(t, url.Values{
		"name":     {"  Ada  "},
		"email":    {" ada@example.com "},
		"password": {" secret "},
	})
	f := DecodeRegister(r)
	assert.Equal(t, "Ada", f.Name)
	assert.Equal(t, "ada@example.com", f.Email)
	assert.Equal(t, " secret ", f.Password, "passwords are not trimmed")
	assert.Nil(t, f.Validate())
}

func TestRegisterErrors(t *testing.T) {
	errs := Register{Email: "not-an-email"}.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required.", errs.Get("name"))
	assert.Equal(t, "Enter a valid email address.", errs.Get("email"))
	assert.True(t, errs.Has("password"))
	assert.False(t, errs.Has("Name"), "errors are keyed by form name")
}

func TestLogin(t *testing.T) {
	r := postRequest(t, url.Values{"email": {"a@b.io"}, "password": {"pw"}})
	f := DecodeLogin(r)
	assert.Nil(t, f.Validate())

	errs := Login{}.Validate()
	assert.Len(t, errs, 2)
}

func TestPost(t *testing.T) {
	valid := Post{
		Title:    "Hello",
		Subtitle: "World",
		ImgURL:   "https://example.com/a.jpg",
		Body:     "<p>hi</p>",
	}
	assert.Nil(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(p *Post)
		field string
	}{
		{"missing title", func(p *Post) { p.Title = "" }, "title"},
		{"missing subtitle", func(p *Post) { p.Subtitle = "" }, "subtitle"},
		{"missing body", func(p *Post) { p.Body = "" }, "body"},
		{"relative image", func(p *Post) { p.ImgURL = "/img.png" }, "img_url"},
		{"non http image", func(p *Post) { p.ImgURL = "javascript:alert(1)" }, "img_url"},
		{"long title", func(p *Post) { p.Title = strings.Repeat("x", 251) }, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.edit(&p)
			errs := p.Validate()
			require.NotNil(t, errs)
			assert.True(t, errs.Has(tt.field), "errors: %v", errs)
		})
	}
}

func TestDecodePost(t *testing.T) {
	r := postRequest(t, url.Values{
		"title":    {" T "},
		"subtitle": {"S"},
		"img_url":  {" https://example.com/x.png "},
		"body":     {"<p>b</p>\n"},
	})
	f := DecodePost(r)
	assert.Equal(t, Post{Title: "T", Subtitle: "S", ImgURL: "https://example.com/x.png", Body: "<p>b</p>"}, f)
}

func TestComment(t *testing.T) {
	tests := []struct {
		body string
		ok   bool
		msg  string
	}{
		{"nice", true, ""},
		{"abc", true, ""},
		{"ab", false, "Must be at least 3 characters."},
		{strings.Repeat("é", 100), true, ""},
		{strings.Repeat("a", 101), false, "Must be at most 100 characters."},
		{"", false, "This field is required."},
	}
	for _, tt := range tests {
		errs := Comment{Body: tt.body}.Validate()
		if tt.ok {
			assert.Nil(t, errs, "body %q", tt.body)
			continue
		}
		assert.Equal(t, tt.msg, errs.Get("body"), "body %q", tt.body)
	}

	r := postRequest(t, url.Values{"body": {"   hey   "}})
	assert.Equal(t, "hey", DecodeComment(r).Body)
}

func TestParseTooLarge(t *testing.T) {
	big := url.Values{"body": {strings.Repeat("a", MaxFormBytes+1)}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Error(t, Parse(httptest.NewRecorder(), r))
}
