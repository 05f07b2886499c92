// Package handlers implements the specialist capabilities the dispatcher
// routes to. Each handler extracts its own parameters from the raw utterance.
package handlers

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/maps"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/vehicle"
)

// phrases matches any of a fixed list of words or phrases on word
// boundaries, so "inn" does not fire inside "dinner".
type phrases struct {
	re *regexp.Regexp
}

func newPhrases(list ...string) phrases {
	quoted := make([]string, len(list))
	for i, p := range list {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return phrases{re: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)}
}

func (p phrases) in(text string) bool {
	return p.re.MatchString(text)
}

// firstInt returns the first capture of the first pattern that matches.
func firstInt(text string, patterns ...*regexp.Regexp) (int, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// base carries the id and logger every handler shares.
type base struct {
	id     string
	logger *zap.Logger
}

func newBase(id string, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{id: id, logger: logger.Named(id)}
}

func (b base) ID() string { return b.id }

// CanHandle claims classifications that target this handler.
func (b base) CanHandle(_ string, c nlu.Classification) bool {
	return c.TargetAgent == b.id
}

func reply(text string, actions ...string) router.Result {
	return router.Result{Text: text, Actions: actions}
}

func withState(state *vehicle.State, text string, actions ...string) router.Result {
	return router.Result{Text: text, Actions: actions, VehicleState: state.Snapshot()}
}

func locationOf(msg chat.AgentMessage) chat.Location {
	if msg.UserLocation != nil {
		return *msg.UserLocation
	}
	return maps.DefaultLocation
}

// Deps are the collaborators the builtin handlers need.
type Deps struct {
	State  *vehicle.State
	Maps   maps.Client
	Logger *zap.Logger
}

// Builtin returns every specialist handler, in catalog target order.
func Builtin(d Deps) []router.Handler {
	return []router.Handler{
		NewClimate(d.State, d.Logger),
		NewEntertainment(d.State, d.Logger),
		NewVehicleControl(d.State, d.Logger),
		NewNavigation(d.Maps, d.Logger),
		NewVehicleInfo(d.Logger),
		NewAssistant(d.Logger),
	}
}
