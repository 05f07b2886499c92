// Package router dispatches classified utterances to specialist handlers and
// falls back to general conversation for everything else.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/llm"
	"vehicleagent/internal/memory"
	"vehicleagent/internal/nlu"
)

const (
	// FallbackAgentID tags responses produced by general conversation.
	FallbackAgentID = "llm_fallback_agent"

	ActionGeneralConversation = "general_conversation"
	ActionHandlerError        = "handler_error"

	ApologyText     = "I encountered an issue processing your request. Please try again."
	UnavailableText = "I'm here to help with vehicle controls, navigation, music, and climate. Please ask me something specific about your car!"
	FallbackText    = "I'm here to help! Try asking me about vehicle controls, music, navigation, or climate settings."

	// contextTurns is how many earlier interactions are condensed into the
	// general conversation prompt.
	contextTurns = 3
)

var ErrHandlerFailure = errors.New("handler failed")

// Conversation answers utterances no specialist handler claims.
type Conversation interface {
	Complete(ctx context.Context, utterance, history string) (string, error)
}

// Dispatcher runs one turn at a time per user: classify, route or fall back,
// record the interaction.
type Dispatcher struct {
	classifier *nlu.Classifier
	registry   *Registry
	history    memory.Store
	conv       Conversation
	locks      *userLocks
	audit      *auditLog
	logger     *zap.Logger
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithAuditWriter enables JSONL audit lines for every dispatched turn.
func WithAuditWriter(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.audit = &auditLog{w: w}
	}
}

// NewDispatcher wires the dispatcher. A nil history keeps interactions in
// memory; a nil conversation makes every fallback answer with the canned
// unavailable message.
func NewDispatcher(classifier *nlu.Classifier, registry *Registry, history memory.Store, conv Conversation, opts ...Option) *Dispatcher {
	if classifier == nil {
		classifier = nlu.NewClassifier(nil)
	}
	if registry == nil {
		registry = &Registry{handlers: make(map[string]Handler)}
	}
	if history == nil {
		history = memory.NewMemStore(memory.DefaultLimit)
	}
	d := &Dispatcher{
		classifier: classifier,
		registry:   registry,
		history:    history,
		conv:       conv,
		locks:      newUserLocks(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("router")
	return d
}

func (d *Dispatcher) Classifier() *nlu.Classifier { return d.classifier }

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch handles one inbound message and returns the response. It never
// fails: handler and conversation errors become fixed replies.
func (d *Dispatcher) Dispatch(ctx context.Context, msg chat.AgentMessage) chat.AgentMessage {
	unlock := d.locks.lock(msg.UserID)
	defer unlock()

	start := time.Now()
	text := strings.TrimSpace(msg.Content)

	c := nlu.Unknown()
	if text != "" {
		c = d.classifier.Classify(text)
	}

	var (
		resp    chat.AgentMessage
		path    Path
		turnErr error
	)
	if h, ok := d.target(c); ok {
		res, err := d.invoke(ctx, h, msg)
		if err != nil {
			d.logger.Error("handler failed",
				zap.String("handler", h.ID()),
				zap.String("utterance", msg.Content),
				zap.Error(err))
			resp = chat.NewAgentResponse(msg.UserID, nlu.FallbackAgentID, ApologyText, []string{ActionHandlerError}, nil)
			path, turnErr = PathHandlerError, err
		} else {
			resp = chat.NewAgentResponse(msg.UserID, h.ID(), res.Text, res.Actions, res.VehicleState)
			path = PathRouted
			d.record(ctx, msg, resp)
		}
	} else {
		resp, turnErr = d.fallback(ctx, msg.UserID, text)
		path = PathFallback
		d.record(ctx, msg, resp)
	}

	d.logger.Info("turn dispatched",
		zap.String("user", msg.UserID),
		zap.String("category", string(c.Category)),
		zap.String("subcategory", c.Subcategory),
		zap.Float64("confidence", c.Confidence),
		zap.String("path", string(path)),
		zap.String("agent", resp.AgentID),
		zap.Duration("elapsed", time.Since(start)))

	entry := newAuditEntry(msg.UserID, msg.Content, resp.Content, start)
	entry.Category = string(c.Category)
	entry.Subcategory = c.Subcategory
	entry.Confidence = c.Confidence
	entry.Path = path
	entry.Handler = resp.AgentID
	if turnErr != nil {
		entry.Error = turnErr.Error()
	}
	d.audit.write(entry)

	return resp
}

// target resolves the handler for a routable classification.
func (d *Dispatcher) target(c nlu.Classification) (Handler, bool) {
	if !c.Routable() {
		return nil, false
	}
	h, ok := d.registry.Lookup(c.TargetAgent)
	if !ok {
		d.logger.Warn("no handler registered for target, using general conversation",
			zap.String("target", c.TargetAgent))
	}
	return h, ok
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, msg chat.AgentMessage) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrHandlerFailure, h.ID(), r)
		}
	}()
	res, err = h.Handle(ctx, msg)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrHandlerFailure, h.ID(), err)
	}
	return res, nil
}

func (d *Dispatcher) fallback(ctx context.Context, userID, text string) (chat.AgentMessage, error) {
	recent, err := d.history.Recent(ctx, userID, contextTurns)
	if err != nil {
		d.logger.Warn("could not load conversation context", zap.String("user", userID), zap.Error(err))
	}

	reply, err := d.complete(ctx, text, memory.Condense(recent))
	if err != nil {
		reply = FallbackText
		if errors.Is(err, llm.ErrUnavailable) {
			reply = UnavailableText
		}
		d.logger.Warn("general conversation failed", zap.String("user", userID), zap.Error(err))
	}
	return chat.NewAgentResponse(userID, FallbackAgentID, reply, []string{ActionGeneralConversation}, nil), err
}

func (d *Dispatcher) complete(ctx context.Context, text, history string) (string, error) {
	if d.conv == nil {
		return "", llm.ErrUnavailable
	}
	return d.conv.Complete(ctx, text, history)
}

func (d *Dispatcher) record(ctx context.Context, msg chat.AgentMessage, resp chat.AgentMessage) {
	err := d.history.Append(ctx, memory.Record{
		UserID:        msg.UserID,
		UserInput:     msg.Content,
		AgentResponse: resp.Content,
		AgentID:       resp.AgentID,
		Actions:       resp.ActionsTaken,
	})
	if err != nil {
		d.logger.Warn("failed to record interaction", zap.String("user", msg.UserID), zap.Error(err))
	}
}
