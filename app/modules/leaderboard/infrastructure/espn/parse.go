package espn

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// UnrankedSortOrder places competitors with a missing or unparseable sort
// order after everyone else.
const UnrankedSortOrder = 999

// ErrMalformedPayload is returned when the feed body is not valid JSON.
var ErrMalformedPayload = errors.New("espn: malformed payload")

// Scoreboard is the parsed leaderboard response.
type Scoreboard struct {
	Events []Event
}

// Event is one tournament on the feed.
type Event struct {
	ID   string
	Name string
	Date string
	// State is the ESPN status type state: pre, in or post.
	State        string
	StatusDetail string
	// HasCompetition is false when the event carries no competitions at all.
	HasCompetition bool
	Competitors    []Competitor
}

// Competitor is one golfer entry of the first competition of an event.
type Competitor struct {
	ID           string
	SortOrder    int
	RawSortOrder string
	Position     string
	DisplayName  string
	ShortName    string
	// StatScore is the statistics entry named "score" (displayValue, else value).
	StatScore string
	// Score is the competitor level score field.
	Score  string
	Status string
}

// Parse extracts the fields the leaderboard needs from a feed body.
func Parse(body []byte) (Scoreboard, error) {
	if !gjson.ValidBytes(body) {
		return Scoreboard{}, ErrMalformedPayload
	}

	root := gjson.ParseBytes(body)
	var sb Scoreboard
	root.Get("events").ForEach(func(_, ev gjson.Result) bool {
		sb.Events = append(sb.Events, parseEvent(ev))
		return true
	})
	return sb, nil
}

func parseEvent(ev gjson.Result) Event {
	e := Event{
		ID:           ev.Get("id").String(),
		Name:         ev.Get("name").String(),
		Date:         ev.Get("date").String(),
		State:        ev.Get("status.type.state").String(),
		StatusDetail: ev.Get("status.type.detail").String(),
	}

	comps := ev.Get("competitions")
	if !comps.IsArray() || len(comps.Array()) == 0 {
		return e
	}
	e.HasCompetition = true

	comps.Array()[0].Get("competitors").ForEach(func(_, c gjson.Result) bool {
		e.Competitors = append(e.Competitors, parseCompetitor(c))
		return true
	})
	return e
}

func parseCompetitor(c gjson.Result) Competitor {
	raw := c.Get("sortOrder")
	out := Competitor{
		ID:           c.Get("id").String(),
		RawSortOrder: raw.String(),
		SortOrder:    ParseSortOrder(raw),
		DisplayName:  c.Get("athlete.displayName").String(),
		ShortName:    c.Get("athlete.shortName").String(),
		StatScore:    statScore(c.Get("statistics")),
		Score:        displayValue(c.Get("score")),
	}

	status := c.Get("status")
	switch {
	case status.Type == gjson.String:
		out.Status = status.String()
	case status.IsObject():
		out.Status = status.Get("displayValue").String()
		if out.Status == "" {
			out.Status = status.Get("type.description").String()
		}
		out.Position = status.Get("position.displayName").String()
	}
	return out
}

// ParseSortOrder converts a sort order that may be a number or a string.
func ParseSortOrder(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		if f != float64(int(f)) {
			return UnrankedSortOrder
		}
		return int(f)
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return UnrankedSortOrder
		}
		return n
	default:
		return UnrankedSortOrder
	}
}

func statScore(stats gjson.Result) string {
	var score string
	stats.ForEach(func(_, s gjson.Result) bool {
		if s.Get("name").String() != "score" {
			return true
		}
		if dv := s.Get("displayValue"); dv.Exists() && dv.String() != "" {
			score = dv.String()
		} else if v := s.Get("value"); v.Exists() {
			score = v.String()
		}
		return score == ""
	})
	return score
}

// displayValue reads a field that is either a scalar or an object carrying displayValue.
func displayValue(v gjson.Result) string {
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return ""
	case v.IsObject():
		return v.Get("displayValue").String()
	case v.IsArray():
		return ""
	default:
		return v.String()
	}
}
