package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/htmldom"
	"github.com/amgomez49/SF-desuscripcion/internal/eventbus"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/remote"
	"github.com/amgomez49/SF-desuscripcion/web"
)

// manualLoop holds work until the test settles it, standing in for a remote
// call that is still in flight.
type manualLoop struct {
	pending []func()
}

func (l *manualLoop) Await(work eventbus.Work, done eventbus.Continuation) {
	l.pending = append(l.pending, func() {
		ok, err := eventbus.Run(context.Background(), work)
		done(ok, err)
	})
}

func (l *manualLoop) settleAll() {
	pending := l.pending
	l.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type recordingAction struct {
	calls    int
	payloads []*models.Payload
	ok       bool
	err      error
}

func (a *recordingAction) Unsubscribe(_ context.Context, p *models.Payload) (bool, error) {
	a.calls++
	a.payloads = append(a.payloads, p)
	return a.ok, a.err
}

type fixture struct {
	doc    *htmldom.Document
	ctrl   *Controller
	loop   *manualLoop
	action *recordingAction
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, page string, action *recordingAction) *fixture {
	t.Helper()
	doc, err := htmldom.ParseString(page)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	loop := &manualLoop{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var a remote.Action
	if action != nil {
		a = action
	}
	ctrl := New(doc, a, loop, Options{Logger: logger})
	return &fixture{doc: doc, ctrl: ctrl, loop: loop, action: action, logs: logs}
}

func (f *fixture) el(selector string) dom.Element {
	return f.doc.Query(selector)
}

func (f *fixture) checkboxes() []dom.Element {
	return f.doc.QueryAll(".checkbox input[type='checkbox']")
}

func (f *fixture) submit() {
	f.doc.Click(f.el(SubmitSelector))
}

func requireIdle(t *testing.T, f *fixture) {
	t.Helper()
	button := f.el(SubmitSelector)
	require.Equal(t, models.Idle, f.ctrl.State())
	require.False(t, button.Disabled())
	require.Equal(t, IdleLabel, button.InnerHTML())
	for _, row := range f.doc.QueryAll(".checkbox") {
		require.False(t, row.HasClass(DimmedClass))
		require.False(t, row.HasClass(NoPointerClass))
	}
}

func requireMessage(t *testing.T, f *fixture, msg models.OutcomeMessage) {
	t.Helper()
	require.True(t, f.ctrl.MessageVisible())
	require.False(t, f.el("#modal").HasClass(HiddenClass))
	require.Equal(t, msg.Title, f.el(TitleSlotSelector).Text())
	src, _ := f.el(IconSlotSelector).Attr("src")
	require.Equal(t, msg.Icon.AssetPath(), src)
}

func TestNew_BindsToPage(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	require.True(t, f.ctrl.Bound())
	require.Equal(t, models.Idle, f.ctrl.State())
	require.Equal(t, 1, f.doc.Handlers(f.el("#form"), dom.EventSubmit))

	els := f.ctrl.Elements()
	require.NotNil(t, els.Submit)
	require.Len(t, els.Rows, 3)
	require.NotNil(t, els.Overlay)
	require.NotNil(t, els.Icon)
	require.NotNil(t, els.Preloader)
}

func TestSubmit_LocksFormWhilePending(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	f.submit()

	button := f.el(SubmitSelector)
	require.Equal(t, models.Submitting, f.ctrl.State())
	require.True(t, button.Disabled())
	require.Equal(t, Spinner, button.InnerHTML())
	for _, row := range f.doc.QueryAll(".checkbox") {
		require.True(t, row.HasClass(DimmedClass))
		require.True(t, row.HasClass(NoPointerClass))
	}
	require.False(t, f.ctrl.MessageVisible())
	require.Len(t, f.loop.pending, 1)
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})
	f.el("input[name='email']").SetAttr("value", "a@b.com")
	f.el("input[name='reason']").SetAttr("value", "spam")

	f.submit()
	f.loop.settleAll()

	require.Equal(t, 1, f.action.calls)
	p := f.action.payloads[0]
	email, _ := p.Get("email")
	require.Equal(t, "a@b.com", email)
	reason, _ := p.Get("reason")
	require.Equal(t, "spam", reason)
	require.Equal(t, []string{"email", "newsletter", "promotions", "reason"}, p.Keys())

	requireIdle(t, f)
	requireMessage(t, f, models.SuccessMessage)
	require.Contains(t, f.el(DescSlotSelector).InnerHTML(), "<strong>Ya no recibirás</strong>")
	for _, box := range f.checkboxes() {
		require.False(t, box.Checked(), "checkboxes are cleared after success")
	}
	// Other fields are left as they were.
	value, _ := f.el("input[name='reason']").Attr("value")
	require.Equal(t, "spam", value)
}

func TestSubmit_Rejected(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: false})
	before := checkedStates(f)

	f.submit()
	f.loop.settleAll()

	requireIdle(t, f)
	requireMessage(t, f, models.ErrorMessage)
	require.Equal(t, before, checkedStates(f), "checkboxes are untouched after failure")
	require.Contains(t, f.logs.String(), "unsubscribe rejected")
}

func TestSubmit_ActionError(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{err: errors.New("network down")})
	before := checkedStates(f)

	f.submit()
	f.loop.settleAll()

	requireIdle(t, f)
	requireMessage(t, f, models.ErrorMessage)
	require.Equal(t, before, checkedStates(f))
	require.Contains(t, f.logs.String(), "network down")
}

func TestSubmit_ActionPanicStillCleansUp(t *testing.T) {
	doc, err := htmldom.ParseString(web.Page)
	require.NoError(t, err)
	action := remote.Func(func(context.Context, *models.Payload) (bool, error) {
		panic("boom")
	})
	ctrl := New(doc, action, eventbus.Immediate{}, Options{})

	doc.Click(doc.Query(SubmitSelector))

	require.Equal(t, models.Idle, ctrl.State())
	require.False(t, doc.Query(SubmitSelector).Disabled())
	require.Equal(t, models.ErrorMessage.Title, doc.Query(TitleSlotSelector).Text())
}

func TestSubmit_NoAction(t *testing.T) {
	f := newFixture(t, web.Page, nil)

	f.submit()
	f.loop.settleAll()

	requireIdle(t, f)
	requireMessage(t, f, models.ErrorMessage)
}

func TestSubmit_IgnoredWhilePending(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	f.submit()
	// The disabled button swallows clicks, and a submit dispatched directly
	// is ignored by the controller.
	f.submit()
	f.doc.Dispatch(f.el("#form"), dom.EventSubmit)
	require.Len(t, f.loop.pending, 1)

	f.loop.settleAll()
	require.Equal(t, 1, f.action.calls)

	// Once idle the form can be submitted again.
	f.submit()
	f.loop.settleAll()
	require.Equal(t, 2, f.action.calls)
}

func TestSubmit_RowsInertWhilePending(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: false})
	box := f.el("input[name='updates']")

	f.submit()
	f.doc.Click(box)
	require.False(t, box.Checked())

	f.loop.settleAll()
	f.doc.Click(box)
	require.True(t, box.Checked())
}

func TestSubmit_PreventsDefault(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	require.False(t, f.doc.Dispatch(f.el("#form"), dom.EventSubmit))
}

func TestNew_MissingForm(t *testing.T) {
	f := newFixture(t, `<html><body><button type="submit">x</button></body></html>`, &recordingAction{ok: true})

	require.False(t, f.ctrl.Bound())
	require.Contains(t, f.logs.String(), "form element not found")

	f.doc.Click(f.el("button"))
	require.Equal(t, 0, f.action.calls)
}

func TestNew_MissingSubmitButton(t *testing.T) {
	f := newFixture(t, `<html><body><form id="form"><input name="email"></form></body></html>`, &recordingAction{ok: true})

	require.False(t, f.ctrl.Bound())
	require.Contains(t, f.logs.String(), "submit button not found")
	require.Equal(t, 0, f.doc.Handlers(f.el("#form"), dom.EventSubmit))
}

func TestNew_CustomSelectors(t *testing.T) {
	page := `<html><body>
<form id="other"><div class="row"><input type="checkbox" name="a" checked></div><button type="submit">Desuscribir</button></form>
<div id="dialog" class="hidden"><div id="modal-content"><h2 id="modal-title"></h2></div></div>
</body></html>`
	doc, err := htmldom.ParseString(page)
	require.NoError(t, err)

	ctrl := New(doc, &recordingAction{ok: true}, nil, Options{
		FormSelector:     "#other",
		CheckboxSelector: ".row",
		OverlaySelector:  "#dialog",
	})
	require.True(t, ctrl.Bound())

	doc.Click(doc.Query(SubmitSelector))

	require.False(t, doc.Query("input[name='a']").Checked())
	require.False(t, doc.Query("#dialog").HasClass(HiddenClass))
	require.Equal(t, models.SuccessMessage.Title, doc.Query("#modal-title").Text())
}

func TestOverlay_WithoutSlots(t *testing.T) {
	page := `<html><body><form id="form"><button type="submit">Desuscribir</button></form><div id="modal" class="hidden"></div></body></html>`
	doc, err := htmldom.ParseString(page)
	require.NoError(t, err)
	ctrl := New(doc, &recordingAction{ok: true}, nil, Options{})

	doc.Click(doc.Query(SubmitSelector))
	require.True(t, ctrl.MessageVisible())

	// Without a content box every click dismisses.
	doc.Click(doc.Query("#modal"))
	require.False(t, ctrl.MessageVisible())
}

func TestOverlay_Dismiss(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})
	f.submit()
	f.loop.settleAll()
	require.True(t, f.ctrl.MessageVisible())

	// Clicks inside the content keep it open.
	f.doc.Click(f.el(ContentSelector))
	f.doc.Click(f.el(TitleSlotSelector))
	assert.True(t, f.ctrl.MessageVisible())

	// A click on the backdrop closes it.
	f.doc.Click(f.el("#modal"))
	assert.False(t, f.ctrl.MessageVisible())

	f.submit()
	f.loop.settleAll()
	require.True(t, f.ctrl.MessageVisible())

	f.doc.Click(f.el(CloseSelector))
	assert.False(t, f.ctrl.MessageVisible())
}

func TestOverlay_RepeatedShowKeepsOneHandler(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	for i := 0; i < 3; i++ {
		f.submit()
		f.loop.settleAll()
	}

	require.Equal(t, 1, f.doc.Handlers(f.el("#modal"), dom.EventClick))
	require.Equal(t, 1, f.doc.Handlers(f.el(CloseSelector), dom.EventClick))

	f.ctrl.HideMessage()
	f.ctrl.HideMessage()
	f.doc.Click(f.el("#modal"))
	require.False(t, f.ctrl.MessageVisible())
}

func TestShowMessage_SanitizesDescription(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})

	f.ctrl.ShowMessage(models.OutcomeMessage{
		Title:       "x",
		Description: `hola <strong>mundo</strong><script>alert(1)</script><img src=x onerror=alert(1)>`,
		Icon:        models.IconError,
	})

	desc := f.el(DescSlotSelector).InnerHTML()
	require.Contains(t, desc, "<strong>mundo</strong>")
	require.NotContains(t, desc, "script")
	require.NotContains(t, desc, "onerror")
}

func TestPreloader_RemovedWhenIconLoads(t *testing.T) {
	f := newFixture(t, web.Page, &recordingAction{ok: true})
	require.NotNil(t, f.el("#preloader"))

	f.doc.Load(f.el("#icon"))
	require.Nil(t, f.el("#preloader"))

	// A second load is harmless.
	f.doc.Load(f.el("#icon"))
}

func TestPreloader_NoIcon(t *testing.T) {
	page := `<html><body><div id="preloader"></div><form id="form"><button type="submit">Desuscribir</button></form></body></html>`
	f := newFixture(t, page, &recordingAction{ok: true})

	require.True(t, f.ctrl.Bound())
	require.NotNil(t, f.el("#preloader"))
}

func checkedStates(f *fixture) []bool {
	var states []bool
	for _, box := range f.checkboxes() {
		states = append(states, box.Checked())
	}
	return states
}
