package usecase

import (
	"regexp"
	"strings"
)

// Identity extraction: pull a usable display name and company name out of raw
// email headers and bodies. Both functions always return a string; there is no
// error path, only fallbacks.

const (
	UnknownSender  = "Unknown Sender"
	UnknownCompany = "Unknown Company"
)

var (
	displayNameRe = regexp.MustCompile(`^\s*"?([^"<]+?)"?\s*<[^>]*>`)
	emailTokenRe  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+`)
	localSplitRe  = regexp.MustCompile(`[._\-]+`)
)

// personalProviders are consumer mail domains whose domain name says nothing
// about the sender's company.
var personalProviders = map[string]bool{
	"gmail":   true,
	"yahoo":   true,
	"hotmail": true,
	"outlook": true,
	"aol":     true,
}

// signaturePatterns are tried in order against the message body; the first
// capturing match wins.
var signaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)best regards,\s*\r?\n\s*(\S[^\r\n]*)`),
	regexp.MustCompile(`(?i)thanks,\s*\r?\n\s*(\S[^\r\n]*)`),
	regexp.MustCompile(`(?i)sincerely,\s*\r?\n\s*(\S[^\r\n]*)`),
	regexp.MustCompile(`(?m)^\s*(\S[^\r\n]*\b(?:Inc|Corp|LLC|Ltd|Company|Co)\.?)\s*$`),
}

// domainSuffixes are generic TLD / registry labels stripped off the end of a
// domain before it is turned into a company name.
var domainSuffixes = map[string]bool{
	"com": true, "net": true, "org": true, "io": true, "co": true,
	"biz": true, "info": true, "us": true, "uk": true, "de": true, "eu": true,
}

// ExtractSenderName pulls a display name out of a raw From header. A
// `Name <email>` header wins; otherwise the local part of any email-like token
// is humanized (john.doe -> John Doe).
func ExtractSenderName(fromHeader string) string {
	if m := displayNameRe.FindStringSubmatch(fromHeader); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	if addr := emailTokenRe.FindString(fromHeader); addr != "" {
		local := addr[:strings.Index(addr, "@")]
		parts := localSplitRe.Split(local, -1)
		words := make([]string, 0, len(parts))
		for _, p := range parts {
			if p == "" {
				continue
			}
			words = append(words, titleWord(p))
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}

	return UnknownSender
}

// ExtractCompanyName derives a company name from the sender's email domain,
// falling back to signature scanning for personal-provider addresses and to
// the raw first domain label when nothing else works.
func ExtractCompanyName(email, body string) string {
	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 && at < len(email)-1 {
		domain = strings.ToLower(strings.TrimSpace(email[at+1:]))
	}

	labels := []string{}
	if domain != "" {
		labels = strings.Split(domain, ".")
	}

	if len(labels) > 0 && personalProviders[labels[0]] {
		// Domain says "gmail", not the company. Try the signature.
		if company := scanSignature(body); company != "" {
			return company
		}
		return titleWord(labels[0])
	}

	if len(labels) > 0 {
		trimmed := labels
		for len(trimmed) > 1 && domainSuffixes[trimmed[len(trimmed)-1]] {
			trimmed = trimmed[:len(trimmed)-1]
		}
		words := make([]string, 0, len(trimmed))
		for _, l := range trimmed {
			if l == "" {
				continue
			}
			words = append(words, titleWord(l))
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
		return titleWord(labels[0])
	}

	if company := scanSignature(body); company != "" {
		return company
	}
	return UnknownCompany
}

func scanSignature(body string) string {
	for _, re := range signaturePatterns {
		if m := re.FindStringSubmatch(body); m != nil {
			if company := strings.TrimSpace(m[1]); company != "" {
				return company
			}
		}
	}
	return ""
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
