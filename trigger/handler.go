// Package trigger wires a click on a page element to a translation of the
// page.
package trigger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"github.com/ZaguanLabs/pagetl/page"
)

// Translator translates markup into a target language.
// *pagetl.Translator satisfies it.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (*pagetl.Result, error)
}

// Config names the page elements the handler works with.
type Config struct {
	TriggerID     string // Element whose click starts a translation
	StatusID      string // Element receiving status messages
	LanguageGroup string // name attribute of the language radio group
	// ContentID scopes translation to one element. When empty the whole
	// document is sent and replaced, and the handler re-attaches itself to
	// the trigger found in the new markup.
	ContentID string

	PendingMessage string        // Shown while a translation runs
	SuccessMessage string        // Shown after success (empty clears the status)
	FailureMessage string        // Shown after any failure
	Timeout        time.Duration // Per-translation timeout; zero means none
}

// DefaultConfig returns the element ids and messages of the stock page.
func DefaultConfig() Config {
	return Config{
		TriggerID:      "translate-button",
		StatusID:       "translation-result",
		LanguageGroup:  "language",
		PendingMessage: "Translating...",
		FailureMessage: "Translation failed.",
	}
}

// Outcome reports how one click resolved.
type Outcome struct {
	TargetLang string
	Content    string // Translated markup, empty on failure
	Cached     bool
	Err        error
	Duration   time.Duration
}

// Handler reacts to clicks on the trigger element.
type Handler struct {
	doc        *page.Document
	translator Translator
	cfg        Config
	logger     *slog.Logger
	onComplete func(Outcome)

	ctx    context.Context
	cancel context.CancelFunc

	busy atomic.Bool
	wg   sync.WaitGroup

	mu      sync.Mutex
	last    Outcome
	hasLast bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithOnComplete registers a callback receiving every Outcome. It runs on
// the translation goroutine after the page has been updated.
func WithOnComplete(fn func(Outcome)) Option {
	return func(h *Handler) {
		h.onComplete = fn
	}
}

// WithContext sets the parent context of every translation.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// NewHandler creates a handler for doc. Call Attach to start listening.
func NewHandler(doc *page.Document, translator Translator, cfg Config, opts ...Option) *Handler {
	h := &Handler{
		doc:        doc,
		translator: translator,
		cfg:        cfg,
		logger:     slog.Default(),
		ctx:        context.Background(),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.ctx, h.cancel = context.WithCancel(h.ctx)
	return h
}

// Attach registers the click listener on the trigger element.
func (h *Handler) Attach() error {
	return h.doc.AddEventListener(h.cfg.TriggerID, h.handleClick)
}

// handleClick captures the page state and starts a translation. It returns
// without waiting for the translation service.
func (h *Handler) handleClick() error {
	target, err := h.doc.Checked(h.cfg.LanguageGroup)
	if err != nil {
		return err
	}

	if !h.busy.CompareAndSwap(false, true) {
		return pagetl.ErrBusy
	}

	source, err := h.source()
	if err != nil {
		h.busy.Store(false)
		return err
	}

	_ = h.doc.SetAttr(h.cfg.TriggerID, "disabled", "")
	h.setStatus(h.cfg.PendingMessage)

	h.logger.Info("translation started", "target", target, "bytes", len(source))

	h.wg.Add(1)
	go h.run(source, target)
	return nil
}

// Translate runs one translation to target synchronously, without a click.
// The returned error covers only a translation that could not start;
// translation failures are reported in Outcome.Err.
func (h *Handler) Translate(target string) (Outcome, error) {
	if !h.busy.CompareAndSwap(false, true) {
		return Outcome{}, pagetl.ErrBusy
	}

	source, err := h.source()
	if err != nil {
		h.busy.Store(false)
		return Outcome{}, err
	}

	h.wg.Add(1)
	h.run(source, target)

	out, _ := h.Last()
	return out, nil
}

func (h *Handler) source() (string, error) {
	if h.cfg.ContentID == "" {
		return h.doc.OuterHTML()
	}
	return h.doc.InnerHTML(h.cfg.ContentID)
}

func (h *Handler) run(source, target string) {
	defer h.wg.Done()
	defer h.busy.Store(false)

	ctx := h.ctx
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := h.translator.Translate(ctx, source, target)
	out := Outcome{TargetLang: target}

	if err == nil {
		err = h.apply(res.Content, target)
		out.Content = res.Content
		out.Cached = res.Cached
	}
	out.Duration = time.Since(start)

	if err != nil {
		out.Content = ""
		out.Err = err
		h.logger.Error("translation failed", "target", target, "error", err)
		h.setStatus(h.cfg.FailureMessage)
	} else {
		h.logger.Info("translation applied", "target", target, "cached", out.Cached, "duration", out.Duration)
		h.setStatus(h.cfg.SuccessMessage)
	}

	_ = h.doc.RemoveAttr(h.cfg.TriggerID, "disabled")

	h.mu.Lock()
	h.last, h.hasLast = out, true
	h.mu.Unlock()

	if h.onComplete != nil {
		h.onComplete(out)
	}
}

// apply swaps the translated markup into the page and restores the
// controls the replacement destroyed.
func (h *Handler) apply(content, target string) error {
	if h.cfg.ContentID == "" {
		if err := h.doc.ReplaceRoot(content); err != nil {
			return err
		}
		if err := h.Attach(); err != nil {
			h.logger.Warn("trigger missing from translated page", "trigger", h.cfg.TriggerID, "error", err)
		}
	} else if err := h.doc.ReplaceInner(h.cfg.ContentID, content); err != nil {
		return err
	}

	h.doc.SetRootAttr("lang", pagetl.ToHTMLLang(target))
	h.doc.SetRootAttr("dir", pagetl.GetDirection(target))

	if err := h.doc.Check(h.cfg.LanguageGroup, target); err != nil {
		h.logger.Debug("language option not restored", "target", target, "error", err)
	}
	return nil
}

func (h *Handler) setStatus(msg string) {
	if h.cfg.StatusID == "" {
		return
	}
	if err := h.doc.SetText(h.cfg.StatusID, msg); err != nil && !errors.Is(err, pagetl.ErrNoElement) {
		h.logger.Warn("status update failed", "error", err)
	}
}

// Busy reports whether a translation is in flight.
func (h *Handler) Busy() bool {
	return h.busy.Load()
}

// Last returns the outcome of the most recently resolved translation.
func (h *Handler) Last() (Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasLast
}

// Wait blocks until every started translation has resolved.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Close cancels in-flight translations and waits for them to resolve.
func (h *Handler) Close() {
	h.cancel()
	h.wg.Wait()
}
