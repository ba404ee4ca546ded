// Package notify carries one-shot user-visible messages across a redirect.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "pedidos_flash"

type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Set stores msg for the next page the browser loads.
func Set(w http.ResponseWriter, msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending message, if any, and clears it.
func Pop(w http.ResponseWriter, r *http.Request) (*Message, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, false
	}
	msg := &Message{}
	if err := json.Unmarshal(raw, msg); err != nil || msg.Text == "" {
		return nil, false
	}
	return msg, true
}
