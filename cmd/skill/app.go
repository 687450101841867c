package main

import (
	"context"
	"fmt"
	"strconv"

	"bitbucket.org/sotavant/alexa-skill-server/internal/config"
	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"bitbucket.org/sotavant/alexa-skill-server/internal/models"
	"bitbucket.org/sotavant/alexa-skill-server/internal/response"
	"bitbucket.org/sotavant/alexa-skill-server/internal/skill"
	"go.uber.org/zap"
)

const (
	attrCount = "count"
	slotCount = "amount"
)

type app struct {
	skill.BaseHandler
	skill *skill.Skill
}

func newApp(cfg config.Config) *app {
	a := &app{}
	a.skill = skill.New(cfg, a, map[string]skill.IntentHandlerFunc{
		"HelloIntent":         a.hello,
		"CountIntent":         a.count,
		"AMAZON.HelpIntent":   a.help,
		"AMAZON.StopIntent":   a.stop,
		"AMAZON.CancelIntent": a.stop,
	})
	return a
}

func (a *app) OnLaunch(_ context.Context, req *models.Request) (any, error) {
	return a.skill.NewResponse().
		Say("Welcome! Say hello, or ask me to count.").
		Reprompt("You can say hello, or ask me to count."), nil
}

func (a *app) OnUnknownIntent(_ context.Context, req *models.Request) (any, error) {
	return a.skill.NewResponse().
		Say("Sorry, I don't know how to help with that.").
		Reprompt("Try saying hello."), nil
}

func (a *app) OnSessionEnded(_ context.Context, req *models.Request) error {
	logger.Log.Debug("session ended",
		zap.String("session_id", req.Session.SessionID),
		zap.String("reason", req.Request.Reason),
	)
	return nil
}

func (a *app) hello(_ context.Context, req *models.Request) (any, error) {
	text := "Hello again!"
	if req.Session.New { // first request of a new session
		text = "Hello!"
	}
	return a.skill.NewResponse().Say(text), nil
}

// count keeps a running total in the session attributes; the platform sends
// it back with the next request of the same session.
func (a *app) count(_ context.Context, req *models.Request) (any, error) {
	step := 1
	if v, ok := req.SlotValue(slotCount); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return a.skill.NewResponse().
				Say(fmt.Sprintf("%s is not a number I can count by.", v)).
				Reprompt("How much should I count by?"), nil
		}
		step = n
	}

	total := attributeInt(req, attrCount) + step

	return a.skill.NewResponse().
		SetSessionAttribute(attrCount, total).
		Say(fmt.Sprintf("<speak>The count is now <say-as interpret-as=\"cardinal\">%d</say-as>.</speak>", total)).
		Reprompt("Say count to keep going."), nil
}

func (a *app) help(_ context.Context, req *models.Request) (any, error) {
	return a.skill.NewResponse().
		Say("Say hello to get a greeting, or say count to add one to the counter.").
		SetCard(response.NewSimpleCard("Help", "Try: \"hello\", \"count\", \"count by five\".")).
		Reprompt("What would you like to do?"), nil
}

func (a *app) stop(_ context.Context, req *models.Request) (any, error) {
	b := a.skill.NewResponse().EndSession()
	if total := attributeInt(req, attrCount); total > 0 {
		return b.Say(fmt.Sprintf("Goodbye! You counted to %d.", total)), nil
	}
	return b.Say("Goodbye!"), nil
}

// attributeInt reads a numeric session attribute. JSON numbers arrive as
// float64.
func attributeInt(req *models.Request, key string) int {
	v, ok := req.Attribute(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}
