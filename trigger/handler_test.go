package trigger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"github.com/ZaguanLabs/pagetl/page"
	"github.com/ZaguanLabs/pagetl/provider"
)

const stockPage = `<!DOCTYPE html>
<html><head><title>Demo</title></head><body>
<form>
<label><input type="radio" name="language" value="en" checked>English</label>
<label><input type="radio" name="language" value="ja">日本語</label>
<label><input type="radio" name="language" value="ar">العربية</label>
</form>
<button id="translate-button">Translate</button>
<p id="translation-result"></p>
<div id="content">Hello</div>
</body></html>`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDoc(t *testing.T, markup string) *page.Document {
	t.Helper()
	doc, err := page.Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

// googleServer answers every request with status and body.
func googleServer(t *testing.T, status int, body string) *provider.GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return provider.NewGoogleProvider(provider.GoogleConfig{APIKey: "test-key", Endpoint: srv.URL})
}

func regionConfig() Config {
	cfg := DefaultConfig()
	cfg.ContentID = "content"
	return cfg
}

func clickAndWait(t *testing.T, doc *page.Document, h *Handler) Outcome {
	t.Helper()
	if err := doc.Click("translate-button"); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	h.Wait()
	out, ok := h.Last()
	if !ok {
		t.Fatal("no outcome recorded")
	}
	return out
}

func TestHandler_TranslatesRegionToJapanese(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(googleServer(t, http.StatusOK,
		`{"data":{"translations":[{"translatedText":"こんにちは"}]}}`))
	h := NewHandler(doc, tr, regionConfig(), WithLogger(quietLogger()))
	if err := h.Attach(); err != nil {
		t.Fatal(err)
	}

	out := clickAndWait(t, doc, h)
	if out.Err != nil {
		t.Fatalf("unexpected failure: %v", out.Err)
	}

	content, _ := doc.InnerHTML("content")
	if content != "こんにちは" {
		t.Errorf("expected page content こんにちは, got %q", content)
	}
	if lang, _ := doc.Checked("language"); lang != "ja" {
		t.Errorf("expected ja selected, got %q", lang)
	}
	if !doc.HasListener("translate-button") {
		t.Error("trigger must stay clickable")
	}
	if lang, _ := doc.RootAttr("lang"); lang != "ja" {
		t.Errorf("expected <html lang=ja>, got %q", lang)
	}
	if status, _ := doc.Text("translation-result"); status != "" {
		t.Errorf("status should be cleared after success, got %q", status)
	}
}

func TestHandler_SendsRegionMarkup(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	mock := provider.NewMockProvider()
	h := NewHandler(doc, pagetl.NewTranslator(mock), regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	clickAndWait(t, doc, h)

	req := mock.LastRequest()
	if req == nil || req.Text != "Hello" || req.TargetLang != "ja" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestHandler_DocumentModeReattaches(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(&rewriteProvider{from: "Hello", to: "こんにちは"})
	h := NewHandler(doc, tr, DefaultConfig(), WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)
	if out.Err != nil {
		t.Fatalf("unexpected failure: %v", out.Err)
	}

	content, _ := doc.InnerHTML("content")
	if content != "こんにちは" {
		t.Errorf("expected translated content, got %q", content)
	}
	if !doc.HasListener("translate-button") {
		t.Fatal("handler must be re-attached to the new trigger")
	}
	if lang, _ := doc.Checked("language"); lang != "ja" {
		t.Errorf("expected ja selected after replacement, got %q", lang)
	}

	// The re-attached trigger works again.
	doc.Check("language", "ar")
	out = clickAndWait(t, doc, h)
	if out.Err != nil || out.TargetLang != "ar" {
		t.Fatalf("second click failed: %+v", out)
	}
	if dir, _ := doc.RootAttr("dir"); dir != "rtl" {
		t.Errorf("expected dir=rtl for Arabic, got %q", dir)
	}
}

func TestHandler_DocumentModeSendsOuterHTML(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	mock := provider.NewMockProvider()
	h := NewHandler(doc, pagetl.NewTranslator(mock), DefaultConfig(), WithLogger(quietLogger()))
	h.Attach()

	clickAndWait(t, doc, h)

	text := mock.LastRequest().Text
	if !strings.HasPrefix(text, "<html>") || !strings.Contains(text, `id="translate-button"`) {
		t.Errorf("document mode should send the whole <html> element, got %q", text)
	}
	if strings.Contains(text, "disabled") {
		t.Error("source must be captured before the trigger is disabled")
	}
}

func TestHandler_DocumentModeResultWithoutTrigger(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(googleServer(t, http.StatusOK,
		`{"data":{"translations":[{"translatedText":"こんにちは"}]}}`))
	h := NewHandler(doc, tr, DefaultConfig(), WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)
	if out.Err != nil {
		t.Fatalf("missing trigger in result should not fail: %v", out.Err)
	}
	if got := doc.BodyText(); got != "こんにちは" {
		t.Errorf("expected page content こんにちは, got %q", got)
	}
	if out.Content != "こんにちは" {
		t.Errorf("unexpected outcome content %q", out.Content)
	}
}

func TestHandler_HTTPErrorShowsFailure(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(googleServer(t, http.StatusForbidden, `{"error":{"code":403,"message":"Forbidden"}}`))
	h := NewHandler(doc, tr, regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)

	var httpErr *pagetl.HTTPError
	if !errors.As(out.Err, &httpErr) || httpErr.StatusCode != 403 {
		t.Fatalf("expected HTTPError 403, got %v", out.Err)
	}
	if status, _ := doc.Text("translation-result"); status != "Translation failed." {
		t.Errorf("expected failure message, got %q", status)
	}
	if content, _ := doc.InnerHTML("content"); content != "Hello" {
		t.Errorf("failed translation must not touch content, got %q", content)
	}
	if !doc.HasListener("translate-button") {
		t.Error("trigger must stay clickable after failure")
	}
	if _, disabled, _ := doc.Attr("translate-button", "disabled"); disabled {
		t.Error("trigger must be re-enabled after failure")
	}
}

func TestHandler_APIErrorMessage(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(googleServer(t, http.StatusOK, `{"error":{"message":"Invalid Value"}}`))
	h := NewHandler(doc, tr, regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)

	var apiErr *pagetl.APIError
	if !errors.As(out.Err, &apiErr) {
		t.Fatalf("expected APIError, got %v", out.Err)
	}
	if apiErr.Message != "Invalid Value" {
		t.Errorf("expected message 'Invalid Value', got %q", apiErr.Message)
	}
}

func TestHandler_MissingTranslationsFails(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	tr := pagetl.NewTranslator(googleServer(t, http.StatusOK, `{"data":{}}`))
	h := NewHandler(doc, tr, regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)

	var structErr *pagetl.StructuralError
	if !errors.As(out.Err, &structErr) {
		t.Fatalf("expected StructuralError, got %v", out.Err)
	}
	if content, _ := doc.InnerHTML("content"); content != "Hello" {
		t.Errorf("content must be unchanged, got %q", content)
	}
}

func TestHandler_NoSelection(t *testing.T) {
	doc := newDoc(t, strings.Replace(stockPage, " checked", "", 1))

	mock := provider.NewMockProvider()
	h := NewHandler(doc, pagetl.NewTranslator(mock), regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	err := doc.Click("translate-button")
	if !errors.Is(err, pagetl.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	h.Wait()
	if mock.CallCount() != 0 {
		t.Error("no request should be sent without a selection")
	}
	if h.Busy() {
		t.Error("handler must not stay busy")
	}
}

func TestHandler_PendingStatusAndInFlightGuard(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	blocker := &blockingProvider{release: make(chan struct{}), started: make(chan struct{}, 1)}
	h := NewHandler(doc, pagetl.NewTranslator(blocker), regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	if err := doc.Click("translate-button"); err != nil {
		t.Fatal(err)
	}
	<-blocker.started

	if status, _ := doc.Text("translation-result"); status != "Translating..." {
		t.Errorf("expected pending message while in flight, got %q", status)
	}
	if !h.Busy() {
		t.Error("handler should be busy")
	}
	if err := doc.Click("translate-button"); !errors.Is(err, pagetl.ErrDisabled) {
		t.Errorf("second click should hit the disabled trigger, got %v", err)
	}

	close(blocker.release)
	h.Wait()

	if h.Busy() {
		t.Error("handler should be idle after resolution")
	}
	if blocker.calls() != 1 {
		t.Errorf("expected exactly one request, got %d", blocker.calls())
	}
}

func TestHandler_GuardWithoutDisableableTrigger(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	blocker := &blockingProvider{release: make(chan struct{}), started: make(chan struct{}, 1)}
	h := NewHandler(doc, pagetl.NewTranslator(blocker), regionConfig(), WithLogger(quietLogger()))

	if err := h.handleClick(); err != nil {
		t.Fatal(err)
	}
	<-blocker.started
	doc.RemoveAttr("translate-button", "disabled")

	if err := h.handleClick(); !errors.Is(err, pagetl.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(blocker.release)
	h.Wait()
}

func TestHandler_CloseCancelsInFlight(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	blocker := &blockingProvider{release: make(chan struct{}), started: make(chan struct{}, 1)}
	h := NewHandler(doc, pagetl.NewTranslator(blocker), regionConfig(), WithLogger(quietLogger()))
	h.Attach()

	doc.Click("translate-button")
	<-blocker.started
	h.Close()

	out, _ := h.Last()
	if !errors.Is(out.Err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", out.Err)
	}
	if status, _ := doc.Text("translation-result"); status != "Translation failed." {
		t.Errorf("expected failure message, got %q", status)
	}
}

func TestHandler_Timeout(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	blocker := &blockingProvider{release: make(chan struct{}), started: make(chan struct{}, 1)}
	cfg := regionConfig()
	cfg.Timeout = 20 * time.Millisecond
	h := NewHandler(doc, pagetl.NewTranslator(blocker), cfg, WithLogger(quietLogger()))
	h.Attach()

	out := clickAndWait(t, doc, h)
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", out.Err)
	}
}

func TestHandler_OnComplete(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	var mu sync.Mutex
	var outcomes []Outcome
	h := NewHandler(doc, pagetl.NewTranslator(provider.NewMockProvider()), regionConfig(),
		WithLogger(quietLogger()),
		WithOnComplete(func(o Outcome) {
			mu.Lock()
			outcomes = append(outcomes, o)
			mu.Unlock()
		}),
	)
	h.Attach()

	clickAndWait(t, doc, h)

	mu.Lock()
	defer mu.Unlock()
	if len(outcomes) != 1 || outcomes[0].Content != "こんにちは" {
		t.Errorf("unexpected outcomes %+v", outcomes)
	}
}

func TestHandler_SuccessMessage(t *testing.T) {
	doc := newDoc(t, stockPage)
	doc.Check("language", "ja")

	cfg := regionConfig()
	cfg.SuccessMessage = "Done."
	h := NewHandler(doc, pagetl.NewTranslator(provider.NewMockProvider()), cfg, WithLogger(quietLogger()))
	h.Attach()

	clickAndWait(t, doc, h)

	if status, _ := doc.Text("translation-result"); status != "Done." {
		t.Errorf("expected success message, got %q", status)
	}
}

// rewriteProvider replaces one substring of the source markup.
type rewriteProvider struct {
	from, to string
}

func (p *rewriteProvider) Translate(ctx context.Context, req pagetl.TranslateRequest) (string, error) {
	return strings.ReplaceAll(req.Text, p.from, p.to), nil
}

// blockingProvider blocks until released or the context is done.
type blockingProvider struct {
	mu      sync.Mutex
	n       int
	release chan struct{}
	started chan struct{}
}

func (p *blockingProvider) Translate(ctx context.Context, req pagetl.TranslateRequest) (string, error) {
	p.mu.Lock()
	p.n++
	p.mu.Unlock()

	select {
	case p.started <- struct{}{}:
	default:
	}

	select {
	case <-p.release:
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *blockingProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func TestHandler_TranslateSync(t *testing.T) {
	doc := newDoc(t, stockPage)

	h := NewHandler(doc, pagetl.NewTranslator(provider.NewMockProvider()), regionConfig(), WithLogger(quietLogger()))

	out, err := h.Translate("ja")
	if err != nil {
		t.Fatal(err)
	}
	if out.Err != nil || out.Content != "こんにちは" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if lang, _ := doc.Checked("language"); lang != "ja" {
		t.Errorf("expected ja selected, got %q", lang)
	}
	if h.Busy() {
		t.Error("handler should be idle")
	}
}
