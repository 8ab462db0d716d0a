// Package widget implements the chat widget session controller: the
// Closed -> FormPending -> Chatting state machine a host drives from user
// input, together with the reply reveal effect and the HTTP transport to
// the gateway.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

const (
	// FallbackMessage is shown in place of a reply when the request fails.
	FallbackMessage = "Sorry, something went wrong. Please try again."

	// MaxHistory is the number of prior transcript entries sent with a message.
	MaxHistory = 6

	genericGreeting = "Hi! How can I help you today?"
)

var (
	// ErrInvalidLead is returned when name or email is blank.
	ErrInvalidLead = errors.New("widget: name and email are required")

	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("widget: message is empty")

	// ErrBusy is returned while a request is in flight or a reply is being revealed.
	ErrBusy = errors.New("widget: previous reply still in progress")

	// ErrNotChatting is returned when messages are sent outside the Chatting state.
	ErrNotChatting = errors.New("widget: chat not started")

	// ErrFormNotPending is returned when the lead form is not being shown.
	ErrFormNotPending = errors.New("widget: lead form not pending")
)

// State is the widget session state.
type State int

const (
	StateClosed State = iota
	StateFormPending
	StateChatting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateFormPending:
		return "form_pending"
	case StateChatting:
		return "chatting"
	default:
		return "unknown"
	}
}

// Transport carries widget requests to the gateway.
type Transport interface {
	// Chat sends a message and returns the reply.
	Chat(ctx context.Context, req *model.ChatRequest) (string, error)

	// NotifyLead sends the lead in the background. It never blocks.
	NotifyLead(req *model.LeadRequest)

	// Beacon sends the end-of-session payload in the background. It never blocks.
	Beacon(req *model.ChatRequest)
}

// Options configures a Controller.
type Options struct {
	ClientID  string
	PagePath  string
	UserAgent string
	Referrer  string
	Pacing    Pacing

	// OnMessage receives every complete message shown to the visitor,
	// greetings included.
	OnMessage func(model.Message)

	// OnFrame receives each partial reveal of an assistant reply.
	OnFrame func(string)

	// Now defaults to time.Now.
	Now func() time.Time
}

// session is one open/close cycle of the widget.
type session struct {
	id            string
	state         State
	lead          *model.LeadInfo
	transcript    []model.Message
	openedAt      time.Time
	chatStartedAt time.Time
	busy          bool
	settled       chan struct{}
	summarySent   atomic.Bool
}

func (s *session) settle() {
	if s.settled != nil {
		close(s.settled)
		s.settled = nil
	}
}

// Controller drives one widget instance. It is safe for concurrent use.
type Controller struct {
	mu           sync.Mutex
	transport    Transport
	opts         Options
	revealer     *Revealer
	session      *session
	pageLoadedAt time.Time
}

// New creates a controller in the Closed state.
func New(transport Transport, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OnMessage == nil {
		opts.OnMessage = func(model.Message) {}
	}
	if opts.OnFrame == nil {
		opts.OnFrame = func(string) {}
	}
	return &Controller{
		transport:    transport,
		opts:         opts,
		revealer:     NewRevealer(opts.Pacing),
		pageLoadedAt: opts.Now(),
	}
}

// Open shows the widget. From Closed it starts a fresh session at the lead form.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && c.session.state != StateClosed {
		return
	}
	c.session = &session{
		id:       uuid.New().String(),
		state:    StateFormPending,
		openedAt: c.opts.Now(),
	}
}

// SubmitLead records the visitor's details and starts the chat.
func (c *Controller) SubmitLead(lead model.LeadInfo) error {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Company = strings.TrimSpace(lead.Company)
	if lead.Name == "" || lead.Email == "" {
		return ErrInvalidLead
	}

	if err := c.startChat(&lead, "Hi "+lead.Name+"! How can I help you today?"); err != nil {
		return err
	}

	c.transport.NotifyLead(&model.LeadRequest{
		ClientID: c.opts.ClientID,
		LeadInfo: &lead,
		PagePath: c.opts.PagePath,
	})
	return nil
}

// SkipLead starts the chat anonymously.
func (c *Controller) SkipLead() error {
	lead := model.AnonymousLead()
	return c.startChat(&lead, genericGreeting)
}

func (c *Controller) startChat(lead *model.LeadInfo, greeting string) error {
	c.mu.Lock()
	sess := c.session
	if sess == nil || sess.state != StateFormPending {
		c.mu.Unlock()
		return ErrFormNotPending
	}
	sess.lead = lead
	sess.state = StateChatting
	sess.chatStartedAt = c.opts.Now()
	c.mu.Unlock()

	c.opts.OnMessage(model.Message{Role: model.RoleAssistant, Content: greeting})
	return nil
}

// Send submits a visitor message. It blocks until the reply arrives, then
// starts revealing it; Settled reports when the reply is fully shown. A
// failed request is presented as FallbackMessage and is not returned as an
// error.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	sess := c.session
	switch {
	case sess == nil || sess.state != StateChatting:
		c.mu.Unlock()
		return ErrNotChatting
	case text == "":
		c.mu.Unlock()
		return ErrEmptyMessage
	case sess.busy || c.revealer.Active():
		c.mu.Unlock()
		return ErrBusy
	}

	sess.busy = true
	sess.settled = make(chan struct{})
	history := recent(sess.transcript, MaxHistory)
	userMsg := model.Message{Role: model.RoleUser, Content: text}
	sess.transcript = append(sess.transcript, userMsg)
	req := &model.ChatRequest{
		Message:  text,
		ClientID: c.opts.ClientID,
		History:  history,
		LeadInfo: sess.lead,
	}
	c.mu.Unlock()

	c.opts.OnMessage(userMsg)

	reply, err := c.transport.Chat(ctx, req)

	c.mu.Lock()
	if c.session != sess || sess.state != StateChatting {
		sess.busy = false
		sess.settle()
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err != nil {
		c.finishReply(sess, FallbackMessage)
		return nil
	}

	c.revealer.Start(reply, c.opts.OnFrame, func() {
		c.finishReply(sess, reply)
	})
	return nil
}

func (c *Controller) finishReply(sess *session, reply string) {
	msg := model.Message{Role: model.RoleAssistant, Content: reply}

	c.mu.Lock()
	if c.session != sess || sess.state != StateChatting {
		sess.busy = false
		sess.settle()
		c.mu.Unlock()
		return
	}
	sess.transcript = append(sess.transcript, msg)
	sess.busy = false
	sess.settle()
	c.mu.Unlock()

	c.opts.OnMessage(msg)
}

// Settled returns a channel closed once the current reply is fully
// presented, or already closed when nothing is pending.
func (c *Controller) Settled() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && c.session.settled != nil {
		return c.session.settled
	}
	done := make(chan struct{})
	close(done)
	return done
}

// Close hides the widget, sends the end-of-session summary and returns to Closed.
func (c *Controller) Close() {
	c.teardown()

	c.mu.Lock()
	if c.session != nil {
		c.session.state = StateClosed
		c.session.busy = false
		c.session.settle()
	}
	c.mu.Unlock()
}

// Unload is called when the host page goes away. It sends the summary
// without changing state.
func (c *Controller) Unload() {
	c.teardown()
}

func (c *Controller) teardown() {
	c.revealer.Cancel()
	c.sendSummary()
}

// sendSummary dispatches the end-of-session payload at most once per session.
func (c *Controller) sendSummary() {
	c.mu.Lock()
	sess := c.session
	if sess == nil || len(sess.transcript) == 0 {
		c.mu.Unlock()
		return
	}
	req := &model.ChatRequest{
		SessionEnd: true,
		SessionID:  sess.id,
		ClientID:   c.opts.ClientID,
		History:    append([]model.Message(nil), sess.transcript...),
		LeadInfo:   sess.lead,
		Behavior:   c.behaviorLocked(sess),
	}
	c.mu.Unlock()

	if !sess.summarySent.CompareAndSwap(false, true) {
		return
	}
	c.transport.Beacon(req)
}

func (c *Controller) behaviorLocked(sess *session) *model.Behavior {
	now := c.opts.Now()
	b := &model.Behavior{
		PagePath:      c.opts.PagePath,
		SecondsOnPage: int(now.Sub(c.pageLoadedAt).Seconds()),
		MessageCount:  len(sess.transcript),
		FormFilled:    !sess.lead.IsAnonymous(),
		UserAgent:     c.opts.UserAgent,
		Referrer:      c.opts.Referrer,
	}
	if !sess.chatStartedAt.IsZero() {
		b.SecondsInChat = int(now.Sub(sess.chatStartedAt).Seconds())
	}
	return b
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return StateClosed
	}
	return c.session.state
}

// Transcript returns a copy of the current session transcript.
func (c *Controller) Transcript() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return append([]model.Message(nil), c.session.transcript...)
}

// Lead returns the lead recorded for the current session, if any.
func (c *Controller) Lead() *model.LeadInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.lead == nil {
		return nil
	}
	lead := *c.session.lead
	return &lead
}

// SessionID returns the id of the current session.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.id
}

func recent(transcript []model.Message, n int) []model.Message {
	if len(transcript) > n {
		transcript = transcript[len(transcript)-n:]
	}
	return append([]model.Message(nil), transcript...)
}
