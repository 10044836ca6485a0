package usecase

import (
	"net/mail"
	"regexp"
	"strings"
)

const maxEmailLength = 254

// UnknownClientIP is what the transport reports when no proxy header names the client.
const UnknownClientIP = "unknown"

var disposableDomains = map[string]struct{}{
	"tempmail.com":      {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"mailinator.com":    {},
	"throwaway.email":   {},
	"temp-mail.org":     {},
	"sharklasers.com":   {},
	"yopmail.com":       {},
	"maildrop.cc":       {},
	"trashmail.com":     {},
}

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail expects an already normalized address.
func IsValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	if strings.HasPrefix(email, ".") || strings.Contains(email, "..") {
		return false
	}
	if !emailPattern.MatchString(email) {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

func IsDisposableDomain(domain string) bool {
	_, ok := disposableDomains[strings.ToLower(domain)]
	return ok
}

// IsHoneypotFilled reports whether the hidden company field carries anything but whitespace.
func IsHoneypotFilled(company string) bool {
	return strings.TrimSpace(company) != ""
}

// StripHTML drops script/style elements with their content, then every remaining tag.
func StripHTML(text string) string {
	text = scriptStylePattern.ReplaceAllString(text, "")
	return tagPattern.ReplaceAllString(text, "")
}

func sanitizeOptional(text string) *string {
	cleaned := strings.TrimSpace(StripHTML(text))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func clientIPOrNil(ip string) *string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == UnknownClientIP {
		return nil
	}
	return &ip
}
