package server

import (
	"encoding/json"
	"time"

	"showreel/internal/animator"
	"showreel/internal/carousel"
	"showreel/internal/domain"
)

// Outbound frame types
const (
	TypeStateInit = "state_init"
	TypeFrame     = "frame"
	TypeAutoplay  = "autoplay"
	TypeError     = "error"
)

// Inbound command types
const (
	CmdNext     = "next"
	CmdPrev     = "prev"
	CmdGoTo     = "goto"
	CmdHover    = "hover"
	CmdAutoplay = "autoplay"
)

// Command is a JSON message sent by a render client
type Command struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
	On    bool   `json:"on,omitempty"`

	client *Client
}

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type wsItem struct {
	Key      string    `json:"key"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Body     string    `json:"description,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	URL      string    `json:"url,omitempty"`
	Image    string    `json:"image,omitempty"`
	Issued   time.Time `json:"issued,omitzero"`
}

type wsMotion struct {
	Kind       string             `json:"kind"`
	From       animator.Transform `json:"from"`
	To         animator.Transform `json:"to"`
	DurationMs int64              `json:"duration_ms"`
	Curve      string             `json:"curve"`
}

type wsSlot struct {
	Key       string             `json:"key"`
	Role      string             `json:"role"`
	Transform animator.Transform `json:"transform"`
	Motion    *wsMotion          `json:"motion,omitempty"`
}

type wsStateInit struct {
	Items     []wsItem `json:"items"`
	Active    int      `json:"active"`
	Direction string   `json:"direction"`
	Autoplay  string   `json:"autoplay"`
	Slots     []wsSlot `json:"slots"`
}

type wsFrame struct {
	Active    int            `json:"active"`
	Direction string         `json:"direction"`
	Trigger   domain.Trigger `json:"trigger"`
	Slots     []wsSlot       `json:"slots"`
}

type wsAutoplay struct {
	State string `json:"state"`
}

type wsError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func curveName(k animator.Kind) string {
	switch k {
	case animator.Enter:
		return "ease-out-cubic"
	case animator.Exit:
		return "ease-in-cubic"
	default:
		return "ease-in-out-cubic"
	}
}

func items(src []domain.DisplayItem) []wsItem {
	out := make([]wsItem, len(src))
	for i, it := range src {
		out[i] = wsItem{
			Key:      it.Key,
			Kind:     string(it.Kind),
			Title:    it.Label(),
			Subtitle: it.Subtitle,
			Body:     it.Description,
			Tags:     it.Tags,
			URL:      it.URL,
			Image:    it.Image,
			Issued:   it.Issued,
		}
	}
	return out
}

// slots describes every item at now. Items still moving carry their motion
// so the client can run it locally.
func slots(snap carousel.Snapshot, anim *animator.Animator, now time.Time) []wsSlot {
	out := make([]wsSlot, len(snap.Items))
	for i, it := range snap.Items {
		tf, _ := anim.Sample(it.Key, now)
		s := wsSlot{Key: it.Key, Role: snap.Roles[i].String(), Transform: tf}
		if m, ok := anim.Motion(it.Key); ok && !m.Done(now) {
			s.Motion = &wsMotion{
				Kind:       m.Kind.String(),
				From:       m.From,
				To:         m.To,
				DurationMs: m.Duration.Milliseconds(),
				Curve:      curveName(m.Kind),
			}
		}
		out[i] = s
	}
	return out
}

func marshal(typ string, data any, now time.Time) ([]byte, error) {
	ts := now.UTC()
	return json.Marshal(envelope{Type: typ, Ts: &ts, Data: data})
}

func errorFrame(code, msg string) []byte {
	b, _ := marshal(TypeError, wsError{Code: code, Message: msg}, time.Now())
	return b
}
