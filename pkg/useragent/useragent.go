package useragent

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywordSet groups substring markers for a single membership test.
type keywordSet []string

func (k keywordSet) contains(s string) bool {
	for _, keyword := range k {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// Bot markers cover crawlers, social-media preview fetchers, uptime
// monitors and similar automated clients.
var botKeywords = keywordSet{
	"bot", "spider", "crawler", "archiver", "lighthouse", "slurp",
	"facebookexternalhit", "whatsapp", "telegram", "discord",
	"monitor", "analyzer", "validator", "fetcher", "scraper",
	"headless", "python-requests", "curl", "wget",
}

// IsBot reports whether the user agent string belongs to automated
// traffic. An empty string is treated as a bot: real browsers always send
// a User-Agent.
func IsBot(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	return botKeywords.contains(strings.ToLower(userAgent))
}

// Direct mapping for the most common bots, checked before the patterns.
var botNameMap = map[string]string{
	"googlebot":           "Googlebot",
	"bingbot":             "Bingbot",
	"yandexbot":           "Yandexbot",
	"duckduckbot":         "DuckDuckBot",
	"twitterbot":          "Twitterbot",
	"facebookexternalhit": "Facebook",
	"linkedinbot":         "Linkedinbot",
	"slackbot":            "Slackbot",
	"telegrambot":         "Telegrambot",
}

var botNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([a-z0-9\-_]+bot)`),
	regexp.MustCompile(`(?i)([a-z0-9\-_]+spider)`),
	regexp.MustCompile(`(?i)([a-z0-9\-_]+crawler)`),
}

// BotName extracts a human-readable bot name from a user agent string,
// falling back to "Unknown Bot" when nothing matches.
func BotName(userAgent string) string {
	lowerUA := strings.ToLower(userAgent)

	for keyword, name := range botNameMap {
		if strings.Contains(lowerUA, keyword) {
			return name
		}
	}

	title := cases.Title(language.English)
	for _, pattern := range botNamePatterns {
		if matches := pattern.FindStringSubmatch(userAgent); len(matches) > 1 {
			return title.String(strings.ToLower(matches[1]))
		}
	}

	return "Unknown Bot"
}
