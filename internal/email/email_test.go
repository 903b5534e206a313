package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	requests []SendRequest
	err      error
}

func (s *recordingSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.requests = append(s.requests, req)
	return SendResult{MessageID: "test"}, s.err
}

func TestRenderConfirmation(t *testing.T) {
	html, err := RenderConfirmation("<Ana>", true)
	require.NoError(t, err)

	assert.Contains(t, html, "&lt;Ana&gt;")
	assert.NotContains(t, html, "<Ana>")
	assert.Contains(t, html, `src="cid:logo"`)
	assert.Contains(t, html, "<strong>")
	assert.Contains(t, html, StudioContact.Maps)
	assert.Contains(t, html, "mailto:"+StudioContact.Email)
	assert.Contains(t, html, PrimaryColor)

	html, err = RenderConfirmation("Ana", false)
	require.NoError(t, err)
	assert.NotContains(t, html, "cid:logo")
}

func TestRenderConfirmation_NameIsLiteral(t *testing.T) {
	html, err := RenderConfirmation("[Pulsa aquí](https://x.example)", false)
	require.NoError(t, err)
	assert.NotContains(t, html, `href="https://x.example"`)
	assert.Contains(t, html, "[Pulsa aquí](https://x.example)")

	html, err = RenderConfirmation("*Ana*\n# Hola", false)
	require.NoError(t, err)
	assert.Contains(t, html, "*Ana* # Hola")
	assert.NotContains(t, html, "<em>Ana</em>")
	assert.NotContains(t, html, "<h1>")
}

func TestLoadAttachments(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "normas.pdf")
	require.NoError(t, os.WriteFile(rules, []byte("%PDF"), 0o600))

	attachments := LoadAttachments(rules, filepath.Join(dir, "missing.png"), zap.NewNop())
	require.Len(t, attachments, 1)
	assert.Equal(t, "normas.pdf", attachments[0].Filename)
	assert.Empty(t, attachments[0].ContentID)

	logo := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte{0x89, 'P', 'N', 'G'}, 0o600))
	attachments = LoadAttachments("", logo, zap.NewNop())
	require.Len(t, attachments, 1)
	assert.Equal(t, "logo", attachments[0].ContentID)
}

func TestMailer_SendRegistrationConfirmation(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, []Attachment{{Filename: "logo.png", ContentID: "logo"}}, zap.NewNop())

	require.NoError(t, mailer.SendRegistrationConfirmation(context.Background(), "Ana", "ana@example.com"))
	require.Len(t, sender.requests, 1)

	req := sender.requests[0]
	assert.Equal(t, []string{"ana@example.com"}, req.To)
	assert.Equal(t, ConfirmationSubject, req.Subject)
	assert.Contains(t, req.HTML, "cid:logo")
	assert.Len(t, req.Attachments, 1)

	sender.err = errors.New("boom")
	assert.Error(t, mailer.SendRegistrationConfirmation(context.Background(), "Ana", "ana@example.com"))
}

func TestResendSender(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	client := resend.NewCustomClient(srv.Client(), "re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	sender := NewResendSenderWithClient(client, "Studio <hola@example.com>", zap.NewNop())
	res, err := sender.Send(context.Background(), SendRequest{
		To:          []string{"ana@example.com"},
		Subject:     "Hola",
		HTML:        "<p>hola</p>",
		Attachments: []Attachment{{Filename: "logo.png", Content: []byte{1, 2}, ContentID: "logo"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", res.MessageID)

	assert.Equal(t, "Studio <hola@example.com>", body["from"])
	assert.Equal(t, "Hola", body["subject"])
	attachments, ok := body["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)
	assert.Equal(t, "logo", attachments[0].(map[string]any)["content_id"])
}

func TestResendSender_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"bad from"}`))
	}))
	defer srv.Close()

	client := resend.NewCustomClient(srv.Client(), "re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	_, err := NewResendSenderWithClient(client, "x", zap.NewNop()).Send(context.Background(), SendRequest{To: []string{"a@b.com"}})
	assert.Error(t, err)
}

func TestNoopSender(t *testing.T) {
	res, err := NewNoopSender(zap.NewNop()).Send(context.Background(), SendRequest{To: []string{"a@b.com"}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.MessageID)
}
